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

// Package sbom implements the SBOM Document Engine (spec.md §4.5): a
// uniform handler contract over SPDX 2.3, SPDX 3.0/3.0.1, and CycloneDX
// 1.4-1.6, resolved through a small format+version registry. Handlers
// never mutate the component set they're given; that set is owned by
// whatever called Generate (spec.md §5 "Shared-resource policy").
package sbom

import (
	"fmt"

	"github.com/heimdall-sbom/heimdall/common"
	"github.com/heimdall-sbom/heimdall/component"
)

// Feature is one of the capability tags a handler may advertise.
type Feature string

const (
	FeatureSigning             Feature = "signing"
	FeatureRelationships       Feature = "relationships"
	FeatureEvidence            Feature = "evidence"
	FeatureProperties          Feature = "properties"
	FeatureLicensesExpression  Feature = "licenses-expression"
)

// Metadata carries document-level fields that don't belong to any single
// component (spec.md §3 "SBOMDocument").
type Metadata struct {
	DocumentName  string
	NamespaceSeed string // used to derive a stable namespace/serial URI
	CreatedAt     string // ISO-8601 UTC, stamped once by the caller
	CreatorTool   string
	DataLicense   string
}

// ValidationResult is the outcome of a handler's own structural self-check.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Handler is the uniform format-handler contract of spec.md §4.5.
type Handler interface {
	Name() string
	Version() string
	SupportsFeature(tag Feature) bool
	Generate(components []*component.Info, meta Metadata) ([]byte, error)
	ValidateContent(data []byte) ValidationResult
}

// Factory builds a Handler for (format, version). An empty version
// defaults per family (SPDX→2.3, CycloneDX→1.6); a version the family
// does not support is an error, which Resolve classifies as UnknownFormat.
type Factory func(version string) (Handler, error)

var registry = map[string]Factory{}

// Register adds a family factory under a format name ("spdx",
// "cyclonedx"). Called from each sub-package's init().
func Register(format string, factory Factory) {
	registry[format] = factory
}

// Resolve looks up (format, version) via the registered factories. An
// unknown format or unsupported version yields a common.KindUnknownFormat
// error.
func Resolve(format, version string) (Handler, error) {
	factory, ok := registry[format]
	if !ok {
		return nil, common.NewError(common.KindUnknownFormat, format, fmt.Errorf("sbom: unknown format %q", format))
	}
	h, err := factory(version)
	if err != nil {
		return nil, common.NewError(common.KindUnknownFormat, format+" "+version, err)
	}
	return h, nil
}
