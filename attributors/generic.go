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

package attributors

import (
	"bytes"
	"os"
	"regexp"

	"github.com/heimdall-sbom/heimdall/component"
)

// versionStringPattern matches the common "name version X.Y.Z"-shaped
// strings embedded by build systems (e.g. "zlib 1.2.13", "OpenSSL 3.0.8").
var versionStringPattern = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_+.-]{1,40}) (?:version )?v?([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)

// GenericProbe is the last-resort probe: it scans embedded strings in the
// binary for version-looking text. It is low confidence and fills fields
// only if nothing more specific already matched (spec.md §4.3.4).
type GenericProbe struct{}

func (p *GenericProbe) Name() string { return "generic" }

func (p *GenericProbe) Probe(c *component.Info) (Outcome, error) {
	data, err := os.ReadFile(c.FilePath)
	if err != nil {
		return NotApplicable, err
	}

	for _, printable := range extractPrintableRuns(data) {
		if m := versionStringPattern.FindStringSubmatch(printable); m != nil {
			c.Properties["generic.version_hint"] = m[0]
			if c.Version == "" {
				c.Version = m[2]
			}
			if c.PackageManager == "" {
				c.PackageManager = component.PackageManagerGeneric
			}
			return Enriched, nil
		}
	}
	return NotApplicable, nil
}

// extractPrintableRuns is the same "strings(1)"-style scan used to look
// for version hints, bounded to avoid pathological cost on large binaries.
func extractPrintableRuns(data []byte) []string {
	const minRun = 6
	const maxScan = 8 << 20 // first 8MiB is enough for embedded version banners
	if len(data) > maxScan {
		data = data[:maxScan]
	}

	var runs []string
	start := -1
	for i, b := range data {
		printable := b >= 0x20 && b < 0x7F
		if printable {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			if i-start >= minRun {
				runs = append(runs, string(bytes.TrimSpace(data[start:i])))
			}
			start = -1
		}
	}
	return runs
}
