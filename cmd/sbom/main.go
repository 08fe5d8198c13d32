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

// Command sbom is the thin CLI front-end of spec.md §6: it parses
// arguments, drives the extractor over the given input paths, resolves a
// format handler, generates the document, optionally signs it, and
// writes the result. All of the actual engineering lives in the library
// packages; this binary is I/O plumbing only.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/heimdall-sbom/heimdall/config"
	"github.com/heimdall-sbom/heimdall/extractor"
	"github.com/heimdall-sbom/heimdall/sbom"
	"github.com/heimdall-sbom/heimdall/sbom/sign"

	_ "github.com/heimdall-sbom/heimdall/sbom/cyclonedx"
	_ "github.com/heimdall-sbom/heimdall/sbom/spdx23"
	"github.com/heimdall-sbom/heimdall/sbom/spdx3"
)

// Exit codes are a binding contract (spec.md §6).
const (
	exitSuccess       = 0
	exitPluginLoad    = 1
	exitPluginInit    = 2
	exitBinaryProcess = 3
	exitInvalidArgs   = 4
	exitSigningFailed = 5
)

type ali []string

func (a *ali) String() string     { return strings.Join(*a, ",") }
func (a *ali) Set(v string) error { *a = append(*a, v); return nil }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("sbom", flag.ContinueOnError)
	format := fs.String("format", "cyclonedx", "output format (spdx, spdx-2.3, spdx-3.0, spdx-3.0.1, cyclonedx, cyclonedx-1.4, cyclonedx-1.5, cyclonedx-1.6)")
	output := fs.String("output", "sbom.json", "output file path")
	spdxVersion := fs.String("spdx-version", "", "SPDX version override")
	cdxVersion := fs.String("cyclonedx-version", "", "CycloneDX version override")
	noTransitive := fs.Bool("no-transitive-dependencies", false, "disable transitive dependency resolution")
	var aliPaths ali
	fs.Var(&aliPaths, "ali-file-path", "search path for .ali files (repeatable)")
	signKey := fs.String("sign-key", "", "PEM private key for signing")
	signAlgorithm := fs.String("sign-algorithm", "", "signing algorithm (RS256, RS384, RS512, ES256, ES384, ES512, Ed25519)")
	signKeyID := fs.String("sign-key-id", "", "key id to embed in the signature block")
	configPath := fs.String("config", "", "TOML config file for batch/CI use (overridden by any flag given explicitly)")
	strictSchema := fs.Bool("strict-schema", false, "emit only the minimal SPDX 3.0/3.0.1 shape the official schema allows")

	if err := fs.Parse(args); err != nil {
		return exitInvalidArgs
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		showError(fmt.Errorf("no input binaries given"))
		return exitInvalidArgs
	}

	logger := config.NewLogger()
	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			showError(err)
			return exitInvalidArgs
		}
		opts = loaded
	}
	if *noTransitive {
		opts.TransitiveDependencies = false
	}
	if len(aliPaths) > 0 {
		opts.AliSearchPaths = aliPaths
		opts.AliEnabled = true
	}
	if *strictSchema {
		opts.StrictSchema = true
	}

	ex := extractor.New(logger, opts)
	for _, path := range inputs {
		if _, err := ex.ProcessPath(path); err != nil {
			showError(fmt.Errorf("processing %s: %w", path, err))
			return exitBinaryProcess
		}
	}

	handlerFamily, version := resolveFormat(*format, *spdxVersion, *cdxVersion)
	handler, err := sbom.Resolve(handlerFamily, version)
	if err != nil {
		showError(err)
		return exitInvalidArgs
	}
	if handlerFamily == "spdx3" {
		if configurable, ok := handler.(interface {
			WithOptions(spdx3.Options) sbom.Handler
		}); ok {
			handler = configurable.WithOptions(spdx3.Options{StrictSchema: opts.StrictSchema})
		}
	}

	meta := sbom.Metadata{
		DocumentName: "heimdall-sbom",
		CreatedAt:    time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		CreatorTool:  "heimdall",
		DataLicense:  "CC0-1.0",
	}

	document, err := handler.Generate(ex.Components(), meta)
	if err != nil {
		showError(err)
		return exitBinaryProcess
	}

	if *signKey != "" {
		keyPEM, err := os.ReadFile(*signKey)
		if err != nil {
			showError(err)
			return exitSigningFailed
		}
		signed, err := sign.Sign(document, sign.Config{
			Algorithm:     sign.Algorithm(*signAlgorithm),
			PrivateKeyPEM: keyPEM,
			KeyID:         *signKeyID,
		})
		if err != nil {
			showError(err)
			return exitSigningFailed
		}
		document = signed
	}

	if err := os.WriteFile(*output, document, 0o644); err != nil {
		showError(err)
		return exitBinaryProcess
	}

	return exitSuccess
}

// resolveFormat splits a combined "--format" flag value (e.g.
// "cyclonedx-1.6") into the registry family name and version, honoring
// explicit --spdx-version/--cyclonedx-version overrides.
func resolveFormat(format, spdxVersion, cdxVersion string) (family, version string) {
	switch {
	case format == "spdx" || strings.HasPrefix(format, "spdx-"):
		family = "spdx"
		version = strings.TrimPrefix(format, "spdx-")
		if version == format {
			version = ""
		}
		if spdxVersion != "" {
			version = spdxVersion
		}
		if version == "3.0" || version == "3.0.0" || version == "3.0.1" {
			family = "spdx3"
		}
		return family, version
	case format == "cyclonedx" || strings.HasPrefix(format, "cyclonedx-"):
		family = "cyclonedx"
		version = strings.TrimPrefix(format, "cyclonedx-")
		if version == format {
			version = ""
		}
		if cdxVersion != "" {
			version = cdxVersion
		}
		return family, version
	default:
		return format, ""
	}
}

func showError(err error) {
	fmt.Fprintf(os.Stderr, "[ERROR] %s\n", err.Error())
}
