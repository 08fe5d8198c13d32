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

package extractor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/heimdall-sbom/heimdall/component"
)

// librarySearchPath mirrors the directories a dynamic linker consults
// when a dependency is recorded as a bare soname rather than a path.
var librarySearchPath = []string{
	"/usr/lib",
	"/usr/lib64",
	"/usr/lib/x86_64-linux-gnu",
	"/lib",
	"/lib64",
	"/usr/local/lib",
}

// systemLibraryPrefixes are the standard install prefixes whose contents
// are presumed already covered by the OS package database (spec.md §4.4,
// include_system_libraries).
var systemLibraryPrefixes = []string{
	"/usr/lib",
	"/usr/lib64",
	"/lib",
	"/lib64",
	"/usr/local/lib",
	"/System/Library",
	"/Library/Frameworks",
	"C:\\Windows\\System32",
}

func isSystemPath(path string) bool {
	for _, prefix := range systemLibraryPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// resolveTransitiveDeps walks info.Dependencies (soname/path strings
// recorded by the reader) and recursively processes anything resolvable
// on the standard search path, honoring include_system_libraries (spec.md
// §4.4). Entries that cannot be resolved to a file on disk are left as
// bare dependency strings; this is not a failure.
func (e *Extractor) resolveTransitiveDeps(info *component.Info) {
	for _, dep := range info.Dependencies {
		resolved := resolveLibraryPath(dep)
		if resolved == "" {
			continue
		}
		if !e.options.IncludeSystemLibraries && isSystemPath(resolved) {
			continue
		}
		if _, err := e.ProcessLibrary(resolved); err != nil {
			e.logger.WithError(err).Debugf("extractor: transitive dependency %s unresolved", dep)
		}
	}
}

// resolveLibraryPath turns a bare soname (e.g. "libz.so.1") or an
// absolute path already recorded by a reader into a file that exists on
// disk, or "" if nothing matches.
func resolveLibraryPath(dep string) string {
	if filepath.IsAbs(dep) {
		if _, err := os.Stat(dep); err == nil {
			return dep
		}
		return ""
	}
	for _, dir := range librarySearchPath {
		candidate := filepath.Join(dir, dep)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
