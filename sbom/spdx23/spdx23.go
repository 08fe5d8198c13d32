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

// Package spdx23 implements the SPDX 2.3 tag-value handler of spec.md
// §4.5. The field order here is not schema-enforced by SPDX itself, but
// is stabilized by this package to satisfy the byte-determinism property
// P3/P8; github.com/spdx/tools-golang/spdx/common supplies the checksum
// algorithm vocabulary so the tag-value text and any future structured
// export agree on the same enum.
package spdx23

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	spdxcommon "github.com/spdx/tools-golang/spdx/common"

	"github.com/heimdall-sbom/heimdall/component"
	"github.com/heimdall-sbom/heimdall/sbom"
)

func init() {
	sbom.Register("spdx", newHandler)
}

func newHandler(version string) (sbom.Handler, error) {
	if version == "" || version == "2.3" {
		return &handler{}, nil
	}
	return nil, fmt.Errorf("spdx23: unsupported version %q for tag-value handler", version)
}

type handler struct{}

func (h *handler) Name() string    { return "SPDX" }
func (h *handler) Version() string { return "2.3" }

func (h *handler) SupportsFeature(tag sbom.Feature) bool {
	switch tag {
	case sbom.FeatureRelationships, sbom.FeatureProperties, sbom.FeatureLicensesExpression:
		return true
	default:
		return false
	}
}

var invalidSPDXIDChar = regexp.MustCompile(`[^A-Za-z0-9.-]`)

func sanitizeSPDXID(name string) string {
	cleaned := invalidSPDXIDChar.ReplaceAllString(name, "-")
	if cleaned == "" {
		cleaned = "component"
	}
	return cleaned
}

func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

func spdxIDFor(c *component.Info) string {
	return "SPDXRef-" + sanitizeSPDXID(c.Name) + "-" + shortHash(c.IdentityKey)
}

func licenseOrNoAssertion(s string) string {
	if s == "" {
		return "NOASSERTION"
	}
	return s
}

// Generate writes the tag-value document described in spec.md §4.5
// ("SPDX 2.3 (tag-value)"), including PackageVerificationCode (P7) and
// the DESCRIBES/CONTAINS/DEPENDS_ON relationship set.
func (h *handler) Generate(components []*component.Info, meta sbom.Metadata) ([]byte, error) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	namespace := fmt.Sprintf("https://spdx.org/spdxdocs/%s-%s", meta.DocumentName, deterministicDocUUID(meta.NamespaceSeed))

	fmt.Fprintf(w, "SPDXVersion: SPDX-2.3\n")
	fmt.Fprintf(w, "DataLicense: CC0-1.0\n")
	fmt.Fprintf(w, "SPDXID: SPDXRef-DOCUMENT\n")
	fmt.Fprintf(w, "DocumentName: %s\n", meta.DocumentName)
	fmt.Fprintf(w, "DocumentNamespace: %s\n", namespace)
	fmt.Fprintf(w, "Creator: Tool: %s\n", meta.CreatorTool)
	fmt.Fprintf(w, "Created: %s\n", meta.CreatedAt)
	fmt.Fprintf(w, "\n")

	sorted := make([]*component.Info, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool { return spdxIDFor(sorted[i]) < spdxIDFor(sorted[j]) })

	ids := make(map[string]string, len(sorted)*2) // name or identity key -> spdxID, for relationship resolution
	for _, c := range sorted {
		ids[c.Name] = spdxIDFor(c)
		if c.IdentityKey != "" {
			ids[c.IdentityKey] = spdxIDFor(c)
		}
	}

	for _, c := range sorted {
		id := spdxIDFor(c)
		fmt.Fprintf(w, "PackageName: %s\n", c.Name)
		fmt.Fprintf(w, "SPDXID: %s\n", id)
		fmt.Fprintf(w, "PackageVersion: %s\n", valueOrEmpty(c.Version))
		fmt.Fprintf(w, "PackageSupplier: %s\n", supplierOrNoAssertion(c.Supplier))
		fmt.Fprintf(w, "PackageDownloadLocation: %s\n", downloadOrNoAssertion(c.DownloadLocation))
		fmt.Fprintf(w, "FilesAnalyzed: %s\n", boolText(len(c.Checksums) > 0))
		if code := verificationCode(c); code != "" {
			fmt.Fprintf(w, "PackageVerificationCode: %s\n", code)
		}
		if v, ok := c.Checksums[component.ChecksumSHA256]; ok {
			fmt.Fprintf(w, "PackageChecksum: %s: %s\n", string(spdxcommon.SHA256), v)
		}
		if v, ok := c.Checksums[component.ChecksumSHA1]; ok {
			fmt.Fprintf(w, "PackageChecksum: %s: %s\n", string(spdxcommon.SHA1), v)
		}
		fmt.Fprintf(w, "PackageHomePage: %s\n", downloadOrNoAssertion(c.Homepage))
		fmt.Fprintf(w, "PackageLicenseConcluded: %s\n", licenseOrNoAssertion(c.LicenseConcluded))
		fmt.Fprintf(w, "PackageLicenseDeclared: %s\n", licenseOrNoAssertion(c.LicenseDeclared))
		fmt.Fprintf(w, "PackageCopyrightText: NOASSERTION\n")
		fmt.Fprintf(w, "\n")
	}

	if len(sorted) > 0 {
		root := sorted[0]
		fmt.Fprintf(w, "Relationship: SPDXRef-DOCUMENT DESCRIBES %s\n", spdxIDFor(root))
		for _, c := range sorted {
			for _, dep := range c.Dependencies {
				if depID, ok := ids[dep]; ok {
					fmt.Fprintf(w, "Relationship: %s DEPENDS_ON %s\n", spdxIDFor(c), depID)
				}
			}
			if c.ParentIdentityKey != "" {
				if parentID, ok := ids[c.ParentIdentityKey]; ok {
					fmt.Fprintf(w, "Relationship: %s CONTAINS %s\n", parentID, spdxIDFor(c))
				}
			}
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("spdx23: %w", err)
	}
	return buf.Bytes(), nil
}

// verificationCode implements P7: SHA-1 of the sorted, newline-joined
// concatenation of the component's own file SHA-1s. A component carries
// at most one file in this model, so the "sorted file list" degenerates
// to the component's own checksum, consistent with spec.md's definition.
func verificationCode(c *component.Info) string {
	v, ok := c.Checksums[component.ChecksumSHA1]
	if !ok || v == "" {
		return ""
	}
	h := sha1.New()
	h.Write([]byte(v + "\n"))
	return hex.EncodeToString(h.Sum(nil))
}

func valueOrEmpty(s string) string {
	if s == "" {
		return "NOASSERTION"
	}
	return s
}

func supplierOrNoAssertion(s string) string {
	if s == "" {
		return "NOASSERTION"
	}
	if !strings.HasPrefix(s, "Organization:") && !strings.HasPrefix(s, "Person:") {
		return "Organization: " + s
	}
	return s
}

func downloadOrNoAssertion(s string) string {
	if s == "" {
		return "NOASSERTION"
	}
	return s
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func deterministicDocUUID(seed string) string {
	if seed == "" {
		seed = "heimdall"
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func (h *handler) ValidateContent(data []byte) sbom.ValidationResult {
	text := string(data)
	var errs []string
	if !strings.Contains(text, "SPDXVersion: SPDX-2.3") {
		errs = append(errs, "missing SPDXVersion header")
	}
	if !strings.Contains(text, "DataLicense: CC0-1.0") {
		errs = append(errs, "missing DataLicense header")
	}
	if !strings.Contains(text, "SPDXID: SPDXRef-DOCUMENT") {
		errs = append(errs, "missing document SPDXID")
	}
	return sbom.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
