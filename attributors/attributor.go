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

// Package attributors implements the pluggable package-manager and
// language probes of spec.md §4.3: system packaging database, Conan/
// vcpkg manifests, Ada .ali files, and a last-resort generic heuristic.
// Execution order is fixed (specific before generic) and is encoded by
// the order of the slice returned by Default.
package attributors

import (
	"fmt"
	"strings"

	"github.com/heimdall-sbom/heimdall/common"
	"github.com/heimdall-sbom/heimdall/component"
)

// Outcome is the result of running one Probe.
type Outcome int

const (
	NotApplicable Outcome = iota
	Enriched
	ProbeError
)

// Probe is the uniform contract every attributor implements.
type Probe interface {
	Name() string
	Probe(c *component.Info) (Outcome, error)
}

// Options configures which probes activate, mirroring the extractor-level
// ali_search_paths / ali_enabled options of spec.md §4.3.3.
type Options struct {
	AliSearchPaths []string
	AliEnabled     bool
}

// Default returns the fixed probe order: system, Conan/vcpkg, Ada ALI,
// generic (spec.md §4.3).
func Default(opts Options) []Probe {
	probes := []Probe{
		&SystemProbe{},
		&PackageManifestProbe{},
	}
	if opts.AliEnabled || len(opts.AliSearchPaths) > 0 {
		probes = append(probes, NewALIProbe(opts.AliSearchPaths))
	}
	probes = append(probes, &GenericProbe{})
	return probes
}

// Run executes probes in order against c. The first probe that returns
// Enriched sets PackageManager; later probes may still add non-conflicting
// fields into Properties ("short-circuit rule", spec.md §4.3). Per-probe
// errors are batched through a common.ErrorCollector and never abort the
// run (spec.md §7); a probe error classified as common.KindNotFound (an
// optional manifest or .ali file that simply isn't there) is routine and
// is dropped rather than surfaced as a warning.
func Run(c *component.Info, probes []Probe) {
	pmSet := false
	var collector common.ErrorCollector

	for _, p := range probes {
		outcome, err := p.Probe(c)
		if err != nil {
			if common.Is(err, common.KindNotFound) {
				continue
			}
			collector.Add(fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if outcome == Enriched && !pmSet {
			pmSet = true
		}
	}

	if collector.HasErrors() {
		messages := make([]string, len(collector.Errors))
		for i, err := range collector.Errors {
			messages[i] = err.Error()
		}
		c.Properties["attribution.warnings"] = strings.Join(messages, "; ")
	}
}
