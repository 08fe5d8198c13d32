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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/heimdall-sbom/heimdall/component"
)

// PackageManifestProbe looks for Conan (conaninfo.txt / conanfile.txt) or
// vcpkg (vcpkg.json) manifest markers adjacent to, or in the installed
// prefix of, the component's file (spec.md §4.3.2).
type PackageManifestProbe struct{}

func (p *PackageManifestProbe) Name() string { return "package-manifest" }

func (p *PackageManifestProbe) Probe(c *component.Info) (Outcome, error) {
	dir := filepath.Dir(c.FilePath)

	if found, name, version := findConan(dir); found {
		setPackageManager(c, component.PackageManagerConan, name, version)
		return Enriched, nil
	}
	if found, name, version := findVcpkg(dir); found {
		setPackageManager(c, component.PackageManagerVcpkg, name, version)
		return Enriched, nil
	}
	return NotApplicable, nil
}

func setPackageManager(c *component.Info, pm component.PackageManager, name, version string) {
	if c.PackageManager == "" || c.PackageManager == component.PackageManagerUnknown {
		c.PackageManager = pm
	}
	if name != "" {
		c.Properties["package_manager.name"] = name
	}
	if version != "" && c.Version == "" {
		c.Version = version
	}
}

// findConan walks upward from dir looking for conaninfo.txt / conanfile.txt.
// conaninfo.txt carries a "[general]\nname=...\nversion=..." header.
func findConan(dir string) (found bool, name, version string) {
	for i := 0; i < 6 && dir != "/" && dir != "."; i++ {
		candidate := filepath.Join(dir, "conaninfo.txt")
		if data, err := os.ReadFile(candidate); err == nil {
			name, version = parseConanInfo(string(data))
			return true, name, version
		}
		if _, err := os.Stat(filepath.Join(dir, "conanfile.txt")); err == nil {
			return true, "", ""
		}
		dir = filepath.Dir(dir)
	}
	return false, "", ""
}

func parseConanInfo(data string) (name, version string) {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "name=") {
			name = strings.TrimPrefix(line, "name=")
		}
		if strings.HasPrefix(line, "version=") {
			version = strings.TrimPrefix(line, "version=")
		}
	}
	return name, version
}

// vcpkgManifest mirrors the subset of vcpkg.json fields this probe needs.
type vcpkgManifest struct {
	Name           string `json:"name"`
	VersionString  string `json:"version-string"`
	Version        string `json:"version"`
}

// findVcpkg walks upward from dir looking for vcpkg.json.
func findVcpkg(dir string) (found bool, name, version string) {
	for i := 0; i < 6 && dir != "/" && dir != "."; i++ {
		candidate := filepath.Join(dir, "vcpkg.json")
		if data, err := os.ReadFile(candidate); err == nil {
			var manifest vcpkgManifest
			if json.Unmarshal(data, &manifest) == nil {
				version = manifest.Version
				if version == "" {
					version = manifest.VersionString
				}
				return true, manifest.Name, version
			}
			return true, "", ""
		}
		dir = filepath.Dir(dir)
	}
	return false, "", ""
}
