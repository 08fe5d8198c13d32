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

// Command validate checks that a document emitted by the sbom tool
// round-trips through its own handler's validate_content cleanly
// (spec.md §6, "validate" contract).
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/heimdall-sbom/heimdall/sbom"

	_ "github.com/heimdall-sbom/heimdall/sbom/cyclonedx"
	_ "github.com/heimdall-sbom/heimdall/sbom/spdx23"
	_ "github.com/heimdall-sbom/heimdall/sbom/spdx3"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	format := fs.String("format", "cyclonedx", "format the document claims to be")
	if err := fs.Parse(args); err != nil {
		return 4
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "[ERROR] no document path given")
		return 4
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %s\n", err)
		return 3
	}

	family, version := splitFormat(*format)
	handler, err := sbom.Resolve(family, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %s\n", err)
		return 4
	}

	result := handler.ValidateContent(data)
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "[ERROR] %s\n", e)
		}
		return 3
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "[WARN] %s\n", w)
	}
	fmt.Println("valid")
	return 0
}

func splitFormat(format string) (family, version string) {
	switch {
	case format == "spdx" || strings.HasPrefix(format, "spdx-"):
		version = strings.TrimPrefix(format, "spdx-")
		if version == format {
			version = ""
		}
		if version == "3.0" || version == "3.0.0" || version == "3.0.1" {
			return "spdx3", version
		}
		return "spdx", version
	case format == "cyclonedx" || strings.HasPrefix(format, "cyclonedx-"):
		version = strings.TrimPrefix(format, "cyclonedx-")
		if version == format {
			version = ""
		}
		return "cyclonedx", version
	default:
		return format, ""
	}
}
