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

// Package ali parses GNAT Library Information (.ali) files, the
// per-compilation-unit metadata format described in spec.md §4.3.3.
// Only the baseline record set is decoded (V, RV, W, Z, D); the
// "enhanced" cross-reference records (X, G) are preserved verbatim as
// opaque text per the Open Question in spec.md §9, rather than resolved
// into a call graph.
package ali

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// File is the structured result of parsing one .ali file.
type File struct {
	CompilerVersion string
	SecurityFlags   []string
	WithDeps        []string // build-time "with" dependencies (package names)
	RuntimeDeps     []string // "Z" runtime dependencies
	SourceFiles     []SourceRecord
	// CrossReferences holds raw "X"/"G" lines untouched (enhanced mode,
	// baseline milestone only preserves them as text).
	CrossReferences []string
}

// SourceRecord is one "D" line: a source file plus its timestamp, CRC and
// declaring package name.
type SourceRecord struct {
	SourceFile string
	Timestamp  string
	CRC        string
	Package    string
}

// Parse reads and decodes an .ali file from path.
func Parse(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ali: %w", err)
	}
	defer f.Close()

	result := &File{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		switch line[0] {
		case 'V':
			result.CompilerVersion = parseQuoted(line[1:])
		case 'R':
			if strings.HasPrefix(line, "RV") {
				result.SecurityFlags = append(result.SecurityFlags, strings.TrimSpace(line[2:]))
			}
		case 'W':
			if dep := parseWithLine(line); dep != "" {
				result.WithDeps = append(result.WithDeps, dep)
			}
		case 'Z':
			if dep := parseWithLine(line); dep != "" {
				result.RuntimeDeps = append(result.RuntimeDeps, dep)
			}
		case 'D':
			if rec, ok := parseSourceLine(line); ok {
				result.SourceFiles = append(result.SourceFiles, rec)
			}
		case 'X', 'G':
			result.CrossReferences = append(result.CrossReferences, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ali: %w", err)
	}

	return result, nil
}

// parseQuoted extracts the content of a double-quoted field, e.g.
// `V "GNAT Lib v11"` -> "GNAT Lib v11".
func parseQuoted(s string) string {
	s = strings.TrimSpace(s)
	first := strings.IndexByte(s, '"')
	if first < 0 {
		return s
	}
	last := strings.LastIndexByte(s, '"')
	if last <= first {
		return s
	}
	return s[first+1 : last]
}

// parseWithLine decodes `W package%s src.adb src.ali` / `Z package%s ...`
// lines, returning just the package name.
func parseWithLine(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	name := fields[1]
	name = strings.TrimSuffix(name, "%s")
	name = strings.TrimSuffix(name, "%b")
	return name
}

// parseSourceLine decodes `D src.ads YYYYMMDDHHMMSS CRC pkgname%s`.
func parseSourceLine(line string) (SourceRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return SourceRecord{}, false
	}
	rec := SourceRecord{
		SourceFile: fields[1],
		Timestamp:  fields[2],
		CRC:        fields[3],
	}
	if len(fields) >= 5 {
		pkg := fields[4]
		pkg = strings.TrimSuffix(pkg, "%s")
		pkg = strings.TrimSuffix(pkg, "%b")
		rec.Package = pkg
	}
	return rec, true
}
