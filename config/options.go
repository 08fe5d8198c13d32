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

// Package config threads the pipeline's configuration explicitly (per the
// Design Note in spec.md §9: "global verbose flag → a configuration
// struct threaded explicitly through the pipeline"). Nothing in this
// repository reads an environment variable except the two CLI entry
// points at startup, and HEIMDALL_VERBOSE is translated into a logger
// level exactly once.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Options enumerates the extractor-level configuration named in
// spec.md §4.4.
type Options struct {
	Verbose                bool     `toml:"verbose"`
	ExtractDebugInfo        bool     `toml:"extract_debug_info"`
	IncludeSystemLibraries  bool     `toml:"include_system_libraries"`
	TransitiveDependencies  bool     `toml:"transitive_dependencies"`
	AliSearchPaths          []string `toml:"ali_search_paths"`
	AliEnabled              bool     `toml:"ali_enabled"`

	// StrictSchema controls SPDX 3.0/3.0.1 emission (spec.md §4.5, Open
	// Question #1). Default false: emit full SBOM content. true: emit
	// only the minimal shape the official schema allows.
	StrictSchema bool `toml:"strict_schema"`
}

// Default returns the documented defaults from spec.md §4.4.
func Default() Options {
	return Options{
		ExtractDebugInfo:       true,
		IncludeSystemLibraries: false,
		TransitiveDependencies: true,
		StrictSchema:           false,
	}
}

// Validate is the setup-time configuration check (spec.md §7). It accepts
// every combination of Options and always returns nil; no combination is
// rejected as conflicting.
func (o Options) Validate() error {
	if o.AliEnabled && len(o.AliSearchPaths) == 0 {
		// not fatal by itself: ALI probing is allowed to activate purely
		// from discovered .ali files adjacent to the input (spec.md §4.3.3)
		return nil
	}
	return nil
}

// Load reads Options from a TOML file, starting from Default() so that
// unset fields keep their documented defaults. This is how the `sbom`
// CLI supports a `--config` flag for batch/CI use, using the teacher's
// own config-parsing dependency.
func Load(path string) (Options, error) {
	opts := Default()
	if _, err := os.Stat(path); err != nil {
		return opts, fmt.Errorf("config: cannot read %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return opts, fmt.Errorf("config: cannot parse %s: %w", path, err)
	}
	return opts, nil
}
