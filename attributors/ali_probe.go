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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/heimdall-sbom/heimdall/attributors/ali"
	"github.com/heimdall-sbom/heimdall/common"
	"github.com/heimdall-sbom/heimdall/component"
)

// ALIProbe activates when .ali files are discovered on the configured
// search paths (or when explicitly enabled), and enriches the component
// with GNAT compiler identity, Ada package dependencies, and a
// properties bag of build/security/timestamp/checksum data (spec.md
// §4.3.3). When ali probing is not enabled at all, Default() does not
// include this probe, matching the "skip it entirely" performance
// default named in the spec.
type ALIProbe struct {
	searchPaths []string
}

// NewALIProbe constructs the probe with the given search paths. The
// component's own directory is always searched in addition to these.
func NewALIProbe(searchPaths []string) *ALIProbe {
	return &ALIProbe{searchPaths: searchPaths}
}

func (p *ALIProbe) Name() string { return "ada-ali" }

func (p *ALIProbe) Probe(c *component.Info) (Outcome, error) {
	aliFiles := p.discoverALIFiles(c)
	if len(aliFiles) == 0 {
		return NotApplicable, nil
	}

	var deps []string
	var sourceFiles []string
	var compilerVersion string
	seenFiles := make(map[string]bool)
	seenDeps := make(map[string]bool)
	for _, d := range c.Dependencies {
		seenDeps[d] = true
	}

	for _, path := range aliFiles {
		parsed, err := ali.Parse(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// discoverALIFiles listed a path that is gone by the time we
				// read it (e.g. a concurrent build cleaning up); routine, not
				// a real attribution failure.
				return ProbeError, common.NewError(common.KindNotFound, path, err)
			}
			return ProbeError, fmt.Errorf("ada-ali: %w", err)
		}
		if compilerVersion == "" {
			compilerVersion = parsed.CompilerVersion
		}
		for _, d := range parsed.WithDeps {
			if !seenDeps[d] {
				seenDeps[d] = true
				deps = append(deps, d)
			}
		}
		for _, rec := range parsed.SourceFiles {
			if !seenFiles[rec.SourceFile] {
				seenFiles[rec.SourceFile] = true
				sourceFiles = append(sourceFiles, rec.SourceFile)
			}
			c.Properties[fmt.Sprintf("ali.source.%s.timestamp", rec.SourceFile)] = rec.Timestamp
			c.Properties[fmt.Sprintf("ali.source.%s.crc", rec.SourceFile)] = rec.CRC
		}
		if len(parsed.SecurityFlags) > 0 {
			c.Properties["ali.security_flags"] = strings.Join(parsed.SecurityFlags, ",")
		}
		if len(parsed.CrossReferences) > 0 {
			c.Properties["ali.cross_references"] = strings.Join(parsed.CrossReferences, "\n")
		}
	}

	if c.PackageManager == "" || c.PackageManager == component.PackageManagerUnknown {
		c.PackageManager = component.PackageManagerGnat
	}
	if compilerVersion != "" && c.Version == "" {
		c.Version = compilerVersion
	}
	c.Dependencies = append(c.Dependencies, deps...)
	c.SourceFiles = append(c.SourceFiles, sourceFiles...)

	return Enriched, nil
}

// discoverALIFiles looks for .ali files adjacent to the component's path
// and on every configured search path.
func (p *ALIProbe) discoverALIFiles(c *component.Info) []string {
	var found []string
	dirs := append([]string{filepath.Dir(c.FilePath)}, p.searchPaths...)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ali") {
				continue
			}
			found = append(found, filepath.Join(dir, entry.Name()))
		}
	}
	return found
}
