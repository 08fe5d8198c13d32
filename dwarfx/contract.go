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

package dwarfx

// ExtractSourceFiles implements the extract_source_files contract of
// spec.md §4.2 as a thin projection over Extract.
func ExtractSourceFiles(path string, isELF bool) ([]string, error) {
	r, err := Extract(path, isELF)
	return r.SourceFiles, err
}

// ExtractCompileUnits implements the extract_compile_units contract.
func ExtractCompileUnits(path string, isELF bool) ([]string, error) {
	r, err := Extract(path, isELF)
	return r.CompileUnits, err
}

// ExtractFunctions implements the extract_functions contract.
func ExtractFunctions(path string, isELF bool) ([]string, error) {
	r, err := Extract(path, isELF)
	return r.Functions, err
}

// HasDWARFInfo implements the has_dwarf_info contract.
func HasDWARFInfo(path string, isELF bool) bool {
	r, err := Extract(path, isELF)
	return err == nil && r.ContainsDebugInfo
}
