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
	"bytes"
	"debug/elf"
)

// scanDebugLineHeuristic linearly scans .debug_line for length-prefixed,
// NUL-terminated strings from the DWARF file_names table (spec.md §4.2,
// "Heuristic fallback"). It is conservative by design: it yields only
// source file names, never compile units or functions, and is used only
// when the full parser raised Corrupt/Unsupported or isn't available.
func scanDebugLineHeuristic(path string) ([]string, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sec := f.Section(".debug_line")
	if sec == nil {
		return nil, nil
	}
	data, err := sec.Data()
	if err != nil {
		return nil, err
	}

	var files []string
	seen := make(map[string]bool)

	// Conservative heuristic: walk the buffer looking for runs of
	// printable ASCII terminated by NUL that look like source file names
	// (contain a '.' extension), which is how the DWARF file_names table
	// (a sequence of NUL-terminated strings) looks on the wire without
	// decoding the full line-number-program header.
	start := -1
	for i, b := range data {
		printable := b >= 0x20 && b < 0x7F
		if printable {
			if start == -1 {
				start = i
			}
			continue
		}
		if b == 0 && start != -1 {
			candidate := string(data[start:i])
			start = -1
			if looksLikeSourceFile(candidate) && !seen[candidate] {
				seen[candidate] = true
				files = append(files, candidate)
			}
			continue
		}
		start = -1
	}

	return files, nil
}

func looksLikeSourceFile(s string) bool {
	if len(s) < 3 || len(s) > 300 {
		return false
	}
	dot := bytes.LastIndexByte([]byte(s), '.')
	if dot < 0 || dot == len(s)-1 {
		return false
	}
	ext := s[dot+1:]
	switch ext {
	case "c", "cc", "cpp", "cxx", "h", "hpp", "hxx", "adb", "ads", "s", "S", "rs", "go":
		return true
	default:
		return false
	}
}
