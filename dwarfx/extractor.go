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

import (
	"debug/dwarf"
	"debug/elf"
	"debug/macho"
	"fmt"

	"github.com/heimdall-sbom/heimdall/common"
)

// Result is everything the DWARF Extractor contract (spec.md §4.2)
// produces for one binary.
type Result struct {
	SourceFiles       []string
	CompileUnits      []string
	Functions         []string
	ContainsDebugInfo bool
	UsedFallback      bool // heuristic .debug_line scan was used instead of full DWARF
}

// Extract runs the two strategies in order (full DWARF, then heuristic
// fallback) under the process-wide DWARF lock. It never returns an error
// that should abort the caller: extraction failures downgrade to the
// fallback and are only visible through Result.ContainsDebugInfo /
// Result.UsedFallback, per spec.md §4.2 "Failure semantics".
func Extract(path string, isELF bool) (Result, error) {
	var result Result
	err := withDWARFLock(func() error {
		data, openErr := dwarfDataFor(path, isELF)
		if openErr == nil && data != nil {
			if full, fullErr := extractFullDWARF(data); fullErr == nil {
				result = full
				result.ContainsDebugInfo = true
				return nil
			}
		}

		// full parsing unavailable, unsupported, or corrupt: heuristic fallback
		if isELF {
			if files, fallbackErr := scanDebugLineHeuristic(path); fallbackErr == nil && len(files) > 0 {
				result.SourceFiles = files
				result.ContainsDebugInfo = true
				result.UsedFallback = true
				return nil
			}
		}

		// neither full nor heuristic found anything: leave ContainsDebugInfo
		// false, the caller (extractor) degrades further to the symbol table.
		return nil
	})
	return result, err
}

// dwarfDataFor opens the DWARF data for path. Platform matrix per
// spec.md §4.2: ELF gets full support; Mach-O/PE are permitted to return
// Unsupported (the DWARF stdlib package can read the embedded DWARF in
// Mach-O via debug/macho, but PE embeds no DWARF at all on the toolchains
// Heimdall targets). The heuristic .debug_line scan in Extract reads ELF
// files only, so a Mach-O or PE file without full DWARF goes straight to
// the symbol-table fallback.
func dwarfDataFor(path string, isELF bool) (*dwarf.Data, error) {
	if isELF {
		f, err := elf.Open(path)
		if err != nil {
			return nil, common.NewError(common.KindCorruptDebugInfo, path, err)
		}
		defer f.Close()
		d, err := f.DWARF()
		if err != nil {
			return nil, common.NewError(common.KindNoDebugInfo, path, err)
		}
		return d, nil
	}

	// best-effort Mach-O path; any failure here is intentionally folded
	// into the heuristic/symbol fallback rather than surfaced.
	if f, err := macho.Open(path); err == nil {
		defer f.Close()
		if d, dErr := f.DWARF(); dErr == nil {
			return d, nil
		}
	}
	return nil, common.NewError(common.KindUnsupportedDebugInfo, path, fmt.Errorf("full DWARF unsupported on this format"))
}

// extractFullDWARF walks the DIE tree for the compile-unit, file and
// subprogram entries described in spec.md §4.2.
func extractFullDWARF(data *dwarf.Data) (Result, error) {
	var result Result
	seenFiles := make(map[string]bool)
	seenUnits := make(map[string]bool)
	seenFuncs := make(map[string]bool)

	reader := data.Reader()
	for {
		entry, err := reader.Next()
		if err != nil {
			return result, common.NewError(common.KindCorruptDebugInfo, "", err)
		}
		if entry == nil {
			break
		}

		switch entry.Tag {
		case dwarf.TagCompileUnit:
			if name, ok := entry.Val(dwarf.AttrName).(string); ok {
				if !seenUnits[name] {
					seenUnits[name] = true
					result.CompileUnits = append(result.CompileUnits, name)
				}
			}
			if lr, lrErr := data.LineReader(entry); lrErr == nil && lr != nil {
				var lineEntry dwarf.LineEntry
				for {
					if err := lr.Next(&lineEntry); err != nil {
						break
					}
					if lineEntry.File != nil && !seenFiles[lineEntry.File.Name] {
						seenFiles[lineEntry.File.Name] = true
						result.SourceFiles = append(result.SourceFiles, lineEntry.File.Name)
					}
				}
			}
		case dwarf.TagSubprogram:
			if name, ok := entry.Val(dwarf.AttrName).(string); ok && name != "" {
				if !seenFuncs[name] {
					seenFuncs[name] = true
					result.Functions = append(result.Functions, name)
				}
			}
		}
	}

	return result, nil
}
