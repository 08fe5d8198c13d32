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

// Package spdx3 implements the SPDX 3.0/3.0.1 JSON-LD handler of
// spec.md §4.5. Emission mode is controlled by a caller-supplied
// strict_schema flag (spec.md Open Question #1, resolved in
// config.Options.StrictSchema and threaded in through Options below):
// strict mode emits only the minimal shape the official 3.0.x schema
// allows; permissive mode (the default) emits the full component graph.
package spdx3

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/heimdall-sbom/heimdall/component"
	"github.com/heimdall-sbom/heimdall/sbom"
)

const context3_0 = "https://spdx.org/rdf/3.0.1/spdx-context.jsonld"

func init() {
	sbom.Register("spdx3", newHandler)
}

// Options lets a caller request strict-schema emission; the zero value
// (false) is the documented permissive default.
type Options struct {
	StrictSchema bool
}

func newHandler(version string) (sbom.Handler, error) {
	switch version {
	case "", "3.0.1":
		return &handler{version: "3.0.1"}, nil
	case "3.0", "3.0.0":
		return &handler{version: "3.0"}, nil
	default:
		return nil, fmt.Errorf("spdx3: unsupported version %q", version)
	}
}

type handler struct {
	version string
	opts    Options
}

// WithOptions returns a copy of the handler configured with opts, used by
// callers that need strict_schema (cmd/sbom passes config.Options.StrictSchema
// through here). It returns sbom.Handler rather than the unexported
// *handler type so callers outside this package can type-assert for it
// without naming an unexported type.
func (h *handler) WithOptions(opts Options) sbom.Handler {
	clone := *h
	clone.opts = opts
	return &clone
}

func (h *handler) Name() string    { return "SPDX" }
func (h *handler) Version() string { return h.version }

func (h *handler) SupportsFeature(tag sbom.Feature) bool {
	switch tag {
	case sbom.FeatureRelationships, sbom.FeatureProperties, sbom.FeatureLicensesExpression:
		return !h.opts.StrictSchema
	default:
		return false
	}
}

type graphNode map[string]interface{}

type document struct {
	Context string      `json:"@context"`
	Graph   []graphNode `json:"@graph"`
}

func (h *handler) Generate(components []*component.Info, meta sbom.Metadata) ([]byte, error) {
	docID := "https://spdx.org/spdxdocs/" + meta.DocumentName + "-" + deterministicUUID(meta.NamespaceSeed)

	root := graphNode{
		"@id":  docID,
		"type": "SpdxDocument",
		"creationInfo": graphNode{
			"created":    meta.CreatedAt,
			"createdBy":  []string{meta.CreatorTool},
			"specVersion": h.version,
		},
		"name": meta.DocumentName,
	}

	graph := []graphNode{root}

	if !h.opts.StrictSchema {
		sorted := make([]*component.Info, len(components))
		copy(sorted, components)
		sort.Slice(sorted, func(i, j int) bool { return nodeIDFor(sorted[i]) < nodeIDFor(sorted[j]) })

		var elementRefs []string
		for _, c := range sorted {
			node := softwarePackageNode(c, docID)
			graph = append(graph, node)
			elementRefs = append(elementRefs, nodeIDFor(c))

			for _, dep := range c.Dependencies {
				graph = append(graph, graphNode{
					"@id":              docID + "#relationship-" + nodeIDFor(c) + "-depends-" + sanitize(dep),
					"type":             "Relationship",
					"from":             nodeIDFor(c),
					"relationshipType": "dependsOn",
					"to":               []string{dep},
				})
			}
		}
		root["rootElement"] = elementRefs
	}

	doc := document{Context: context3_0, Graph: graph}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("spdx3: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func softwarePackageNode(c *component.Info, docID string) graphNode {
	node := graphNode{
		"@id":  nodeIDFor(c),
		"type": "software_Package",
		"name": c.Name,
	}
	if c.Version != "" {
		node["software_packageVersion"] = c.Version
	}
	if sha256, ok := c.Checksums[component.ChecksumSHA256]; ok {
		node["verifiedUsing"] = []graphNode{{
			"type":               "Hash",
			"algorithm":          "sha256",
			"hashValue":          sha256,
		}}
	}
	if len(c.Properties) > 0 {
		keys := make([]string, 0, len(c.Properties))
		for k := range c.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		props := make(graphNode, len(keys))
		for _, k := range keys {
			props[k] = c.Properties[k]
		}
		node["properties"] = props
	}
	return node
}

func nodeIDFor(c *component.Info) string {
	if c.IdentityKey != "" {
		return "urn:heimdall:" + c.IdentityKey
	}
	return "urn:heimdall:" + sanitize(c.Name)
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}

func deterministicUUID(seed string) string {
	if seed == "" {
		seed = "heimdall"
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func (h *handler) ValidateContent(data []byte) sbom.ValidationResult {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return sbom.ValidationResult{Valid: false, Errors: []string{err.Error()}}
	}
	var errs []string
	if doc.Context == "" {
		errs = append(errs, "missing @context")
	}
	if len(doc.Graph) == 0 {
		errs = append(errs, "missing @graph root")
	}
	return sbom.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
