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

package sbom

import (
	"github.com/package-url/packageurl-go"

	"github.com/heimdall-sbom/heimdall/component"
)

// ecosystemFor maps a component's package_manager tag onto a purl type
// string (spec.md §4.5 "purl if derivable").
func ecosystemFor(pm component.PackageManager) string {
	switch pm {
	case component.PackageManagerConan:
		return "conan"
	case component.PackageManagerVcpkg:
		return "vcpkg" // not a registered purl type; DerivePURL uses it as the type as is
	case component.PackageManagerSystem:
		return "generic"
	case component.PackageManagerGnat:
		return "generic"
	default:
		return ""
	}
}

// DerivePURL builds a Package URL from a component when enough provenance
// is known, or "" when nothing is derivable.
func DerivePURL(c *component.Info) string {
	ecosystem := ecosystemFor(c.PackageManager)
	if ecosystem == "" || c.Name == "" {
		return ""
	}

	name := c.Name
	version := c.Version

	instance := packageurl.NewPackageURL(ecosystem, "", name, version, nil, "")
	return instance.ToString()
}
