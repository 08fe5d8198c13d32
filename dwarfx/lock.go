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

// Package dwarfx implements the DWARF Extractor (spec.md §4.2): source
// files, compile units and functions from debug info, with a heuristic
// .debug_line scan and a symbol-table fallback when full DWARF parsing
// is unavailable or fails.
package dwarfx

import "sync"

// processLock is the process-wide mutex spec.md §4.2/§5 requires: "DWARF
// extraction is the hard constraint — it must be serialized process-wide
// ... callers constructing multiple extractors from multiple threads must
// still observe serialization." Go's debug/dwarf is, in fact, reentrant
// per-*dwarf.Data value, but the API contract stays serial regardless (per
// the Design Note in spec.md §9: "the guard degrades to a no-op [in terms
// of necessity] but the API contract remains serial to preserve
// portability").
var processLock sync.Mutex

// withDWARFLock serializes fn against every other DWARF extraction call
// in the process, per spec.md §5.
func withDWARFLock(fn func() error) error {
	processLock.Lock()
	defer processLock.Unlock()
	return fn()
}
