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

package readers

import (
	"github.com/ianlancetaylor/demangle"
)

// Demangle attempts Itanium C++ demangling of name; on failure (or for
// Ada/Swift mangling, which this library does not attempt) the mangled
// name is kept unchanged, per spec.md §4.1.
func Demangle(name string) string {
	out, err := demangle.ToString(name, demangle.NoParams, demangle.NoTemplateParams)
	if err != nil {
		return name
	}
	return out
}
