/*******************************************************************************
*
* Copyright 2024 Heimdall contributors
*
* This file is part of Heimdall.
*
* Heimdall is free software: you can redistribute it and/or modify it under the
* terms of the GNU General Public License as published by the Free Software
* Foundation, either version 3 of the License, or (at your option) any later
* version.
*
* Heimdall is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR
* A PARTICULAR PURPOSE. See the GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License along with
* Heimdall. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

// Package cyclonedx implements the CycloneDX 1.4/1.5/1.6 handler of
// spec.md §4.5, built on github.com/CycloneDX/cyclonedx-go for the
// document object model and encoding/json for the deterministic byte
// output P3/P8 require.
package cyclonedx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"

	"github.com/heimdall-sbom/heimdall/component"
	"github.com/heimdall-sbom/heimdall/sbom"
)

func init() {
	sbom.Register("cyclonedx", newHandler)
}

var specVersions = map[string]cdx.SpecVersion{
	"1.4": cdx.SpecVersion1_4,
	"1.5": cdx.SpecVersion1_5,
	"1.6": cdx.SpecVersion1_6,
}

func newHandler(version string) (sbom.Handler, error) {
	if version == "" {
		version = "1.6"
	}
	spec, ok := specVersions[version]
	if !ok {
		return nil, fmt.Errorf("cyclonedx: unknown version %q", version)
	}
	return &handler{version: version, spec: spec}, nil
}

type handler struct {
	version string
	spec    cdx.SpecVersion
}

func (h *handler) Name() string    { return "CycloneDX" }
func (h *handler) Version() string { return h.version }

func (h *handler) SupportsFeature(tag sbom.Feature) bool {
	switch tag {
	case sbom.FeatureProperties, sbom.FeatureRelationships, sbom.FeatureLicensesExpression:
		return true
	case sbom.FeatureEvidence:
		return h.version == "1.5" || h.version == "1.6"
	case sbom.FeatureSigning:
		return h.version == "1.6"
	default:
		return false
	}
}

// Generate builds the CycloneDX BOM and marshals it with two-space
// indentation (spec.md §6 "pretty-printed with two-space indent").
// Components are sorted by bom-ref before marshaling (P8): Go's
// json.Marshal preserves slice order, so this sort is what makes the
// output byte-stable across re-orderings of the input path list.
func (h *handler) Generate(components []*component.Info, meta sbom.Metadata) ([]byte, error) {
	bom := cdx.NewBOM()
	bom.SpecVersion = h.spec
	bom.SerialNumber = "urn:uuid:" + deterministicUUID(meta.NamespaceSeed)
	bom.Version = 1
	bom.Metadata = &cdx.Metadata{
		Timestamp: meta.CreatedAt,
		Tools: &[]cdx.Tool{{
			Vendor:  "Heimdall",
			Name:    meta.CreatorTool,
			Version: "1.0",
		}},
	}

	cdxComponents := make([]cdx.Component, 0, len(components))
	for _, c := range components {
		cdxComponents = append(cdxComponents, toCDXComponent(c))
	}
	sort.Slice(cdxComponents, func(i, j int) bool {
		return cdxComponents[i].BOMRef < cdxComponents[j].BOMRef
	})
	if len(cdxComponents) > 0 {
		bom.Components = &cdxComponents
	}

	deps := buildDependencies(components, cdxComponents)
	if len(deps) > 0 {
		bom.Dependencies = &deps
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(bom); err != nil {
		return nil, fmt.Errorf("cyclonedx: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func toCDXComponent(c *component.Info) cdx.Component {
	ref := bomRefFor(c)

	comp := cdx.Component{
		BOMRef:  ref,
		Type:    componentType(c),
		Name:    c.Name,
		Version: c.Version,
	}

	if purl := sbom.DerivePURL(c); purl != "" {
		comp.PackageURL = purl
	}

	var hashes []cdx.Hash
	if v, ok := c.Checksums[component.ChecksumSHA256]; ok && v != "" {
		hashes = append(hashes, cdx.Hash{Algorithm: cdx.HashAlgoSHA256, Value: v})
	}
	if v, ok := c.Checksums[component.ChecksumSHA1]; ok && v != "" {
		hashes = append(hashes, cdx.Hash{Algorithm: cdx.HashAlgoSHA1, Value: v})
	}
	if len(hashes) > 0 {
		comp.Hashes = &hashes
	}

	if c.LicenseDeclared != "" {
		comp.Licenses = &cdx.Licenses{
			cdx.LicenseChoice{Expression: c.LicenseDeclared},
		}
	}

	props := propertiesFor(c)
	if len(props) > 0 {
		comp.Properties = &props
	}

	return comp
}

func componentType(c *component.Info) cdx.ComponentType {
	switch c.FileType {
	case component.FileTypeExecutable:
		return cdx.ComponentTypeApplication
	case component.FileTypeSharedLibrary, component.FileTypeStaticArchive, component.FileTypeObjectFile:
		return cdx.ComponentTypeLibrary
	default:
		return cdx.ComponentTypeFile
	}
}

// propertiesFor carries Heimdall-specific enrichment under a "heimdall:"
// key prefix (spec.md §4.5), sorted for determinism.
func propertiesFor(c *component.Info) []cdx.Property {
	keys := make([]string, 0, len(c.Properties))
	for k := range c.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make([]cdx.Property, 0, len(keys)+1)
	if c.IsSystemLibrary {
		props = append(props, cdx.Property{Name: "heimdall:is_system_library", Value: "true"})
	}
	for _, k := range keys {
		props = append(props, cdx.Property{Name: "heimdall:" + k, Value: c.Properties[k]})
	}
	return props
}

// buildDependencies emits only refs that exist in components (P6).
func buildDependencies(components []*component.Info, cdxComponents []cdx.Component) []cdx.Dependency {
	knownRefs := make(map[string]bool, len(cdxComponents))
	for _, cc := range cdxComponents {
		knownRefs[cc.BOMRef] = true
	}

	var deps []cdx.Dependency
	for _, c := range components {
		ref := bomRefFor(c)
		if !knownRefs[ref] {
			continue
		}
		var dependsOn []string
		for _, dep := range c.Dependencies {
			candidateRef := dependencyRefForString(components, dep)
			if candidateRef != "" && knownRefs[candidateRef] {
				dependsOn = append(dependsOn, candidateRef)
			}
		}
		if len(dependsOn) == 0 {
			continue
		}
		sort.Strings(dependsOn)
		deps = append(deps, cdx.Dependency{Ref: ref, Dependencies: &dependsOn})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Ref < deps[j].Ref })
	return deps
}

// dependencyRefForString resolves a raw dependency string — a soname, a
// path, or (for archive members linked in by the extractor) another
// component's own IdentityKey — to the bom-ref of a published component,
// if any; otherwise it's an unresolved soname and contributes no edge.
func dependencyRefForString(components []*component.Info, dep string) string {
	for _, c := range components {
		if c.Name == dep || c.FilePath == dep || (c.IdentityKey != "" && c.IdentityKey == dep) {
			return bomRefFor(c)
		}
	}
	return ""
}

func bomRefFor(c *component.Info) string {
	if c.IdentityKey != "" {
		return c.IdentityKey
	}
	return c.Name
}

// deterministicUUID derives a stable UUIDv5 from seed so that re-running
// Generate on the same inputs produces the same serialNumber (P3).
func deterministicUUID(seed string) string {
	if seed == "" {
		seed = "heimdall"
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func (h *handler) ValidateContent(data []byte) sbom.ValidationResult {
	var doc struct {
		BOMFormat    string `json:"bomFormat"`
		SpecVersion  string `json:"specVersion"`
		SerialNumber string `json:"serialNumber"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return sbom.ValidationResult{Valid: false, Errors: []string{err.Error()}}
	}
	var errs []string
	if doc.BOMFormat != "CycloneDX" {
		errs = append(errs, "bomFormat must be \"CycloneDX\"")
	}
	if doc.SpecVersion == "" {
		errs = append(errs, "specVersion is required")
	}
	return sbom.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
