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
	"bufio"
	"os/exec"
	"strings"

	"github.com/heimdall-sbom/heimdall/component"
)

// SystemProbe queries the platform packaging database by resolved file
// path: dpkg first, then rpm. No other packaging database (such as the
// BSD pkg tool) is queried. It is the first, most specific probe in the
// fixed order of spec.md §4.3.
type SystemProbe struct{}

func (p *SystemProbe) Name() string { return "system" }

func (p *SystemProbe) Probe(c *component.Info) (Outcome, error) {
	if name, version, supplier, ok := queryDpkg(c.FilePath); ok {
		return applySystemResult(c, name, version, supplier)
	}
	if name, version, ok := queryRpm(c.FilePath); ok {
		return applySystemResult(c, name, version, "")
	}
	return NotApplicable, nil
}

func applySystemResult(c *component.Info, name, version, supplier string) (Outcome, error) {
	if c.PackageManager == "" || c.PackageManager == component.PackageManagerUnknown {
		c.PackageManager = component.PackageManagerSystem
	}
	if c.Version == "" {
		c.Version = version
	}
	if c.Supplier == "" {
		c.Supplier = supplier
	}
	c.Properties["system.package"] = name
	return Enriched, nil
}

// queryDpkg shells out to `dpkg -S` / `dpkg-query` the way a packaging
// probe would on a Debian-family system. Absence of dpkg, or the file not
// belonging to any package, is NotApplicable rather than an error.
func queryDpkg(path string) (name, version, supplier string, ok bool) {
	if _, err := exec.LookPath("dpkg-query"); err != nil {
		return "", "", "", false
	}
	out, err := exec.Command("dpkg-query", "-S", path).Output()
	if err != nil {
		return "", "", "", false
	}
	line := strings.TrimSpace(string(out))
	parts := strings.SplitN(line, ":", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "", "", "", false
	}
	pkgName := parts[0]

	verOut, err := exec.Command("dpkg-query", "-W", "-f", "${Version}\t${Maintainer}", pkgName).Output()
	if err != nil {
		return pkgName, "", "", true
	}
	scanner := bufio.NewScanner(strings.NewReader(string(verOut)))
	if scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), "\t", 2)
		version = fields[0]
		if len(fields) > 1 {
			supplier = fields[1]
		}
	}
	return pkgName, version, supplier, true
}

// queryRpm shells out to `rpm -qf` the way a packaging probe would on an
// RPM-family system.
func queryRpm(path string) (name, version string, ok bool) {
	if _, err := exec.LookPath("rpm"); err != nil {
		return "", "", false
	}
	out, err := exec.Command("rpm", "-qf", "--qf", "%{NAME}\t%{VERSION}-%{RELEASE}", path).Output()
	if err != nil {
		return "", "", false
	}
	fields := strings.SplitN(strings.TrimSpace(string(out)), "\t", 2)
	if len(fields) == 0 || fields[0] == "" {
		return "", "", false
	}
	if len(fields) > 1 {
		return fields[0], fields[1], true
	}
	return fields[0], "", true
}
