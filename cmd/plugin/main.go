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

// Command plugin is built with -buildmode=c-shared (or c-archive) to
// produce the C-ABI surface of spec.md §6 ("Plugin / linker-shim
// surface"), consumed by the Gold in-link plugin and the LLD wrapper
// tool. No Go exception ever crosses the boundary: every exported
// function except finalize returns an int status, 0 on success and
// non-zero on error, which is the only contract the linker shims are
// written against; finalize has no return value.
package main

//#include <stdlib.h>
import "C"

import (
	"os"
	"time"

	"github.com/heimdall-sbom/heimdall/config"
	"github.com/heimdall-sbom/heimdall/extractor"
	"github.com/heimdall-sbom/heimdall/sbom"
	"github.com/heimdall-sbom/heimdall/sbom/sign"

	_ "github.com/heimdall-sbom/heimdall/sbom/cyclonedx"
	_ "github.com/heimdall-sbom/heimdall/sbom/spdx23"
	_ "github.com/heimdall-sbom/heimdall/sbom/spdx3"
)

const (
	statusOK    = C.int(0)
	statusError = C.int(1)
)

// session holds everything one onload/finalize lifecycle needs. The
// plugin surface is single-session by contract (one linker invocation
// loads the plugin once), so a package-level pointer is sufficient and
// mirrors how the teacher's own cgo shims keep state in package-level
// vars rather than threading a context object across the C boundary.
var activeSession *session

type session struct {
	extractor        *extractor.Extractor
	format           string
	spdxVersion      string
	cyclonedxVersion string
	outputPath       string
	signAlgorithm    string
	signKeyPath      string
	signKeyID        string
}

//export onload
func onload() C.int {
	logger := config.NewLogger()
	activeSession = &session{
		extractor:  extractor.New(logger, config.Default()),
		format:     "cyclonedx",
		outputPath: "sbom.json",
	}
	return statusOK
}

//export set_format
func set_format(format *C.char) C.int {
	if activeSession == nil {
		return statusError
	}
	activeSession.format = C.GoString(format)
	return statusOK
}

//export set_spdx_version
func set_spdx_version(version *C.char) C.int {
	if activeSession == nil {
		return statusError
	}
	activeSession.spdxVersion = C.GoString(version)
	return statusOK
}

//export set_cyclonedx_version
func set_cyclonedx_version(version *C.char) C.int {
	if activeSession == nil {
		return statusError
	}
	activeSession.cyclonedxVersion = C.GoString(version)
	return statusOK
}

//export set_output_path
func set_output_path(path *C.char) C.int {
	if activeSession == nil {
		return statusError
	}
	activeSession.outputPath = C.GoString(path)
	return statusOK
}

//export set_transitive_dependencies
func set_transitive_dependencies(enabled C.int) C.int {
	if activeSession == nil {
		return statusError
	}
	activeSession.extractor.SetTransitiveDependencies(enabled != 0)
	return statusOK
}

//export set_sign_key
func set_sign_key(path *C.char) C.int {
	if activeSession == nil {
		return statusError
	}
	activeSession.signKeyPath = C.GoString(path)
	return statusOK
}

//export set_sign_algorithm
func set_sign_algorithm(algorithm *C.char) C.int {
	if activeSession == nil {
		return statusError
	}
	activeSession.signAlgorithm = C.GoString(algorithm)
	return statusOK
}

//export set_sign_key_id
func set_sign_key_id(keyID *C.char) C.int {
	if activeSession == nil {
		return statusError
	}
	activeSession.signKeyID = C.GoString(keyID)
	return statusOK
}

//export process_input_file
func process_input_file(path *C.char) C.int {
	if activeSession == nil {
		return statusError
	}
	if _, err := activeSession.extractor.ProcessPath(C.GoString(path)); err != nil {
		return statusError
	}
	return statusOK
}

//export finalize
func finalize() {
	if activeSession == nil {
		return
	}
	s := activeSession

	family, version := resolveFamily(s.format, s.spdxVersion, s.cyclonedxVersion)
	handler, err := sbom.Resolve(family, version)
	if err != nil {
		return
	}

	meta := sbom.Metadata{
		DocumentName: "heimdall-sbom",
		CreatedAt:    time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		CreatorTool:  "heimdall",
		DataLicense:  "CC0-1.0",
	}

	document, err := handler.Generate(s.extractor.Components(), meta)
	if err != nil {
		return
	}

	if s.signKeyPath != "" {
		keyPEM, err := os.ReadFile(s.signKeyPath)
		if err == nil {
			if signed, err := sign.Sign(document, sign.Config{
				Algorithm:     sign.Algorithm(s.signAlgorithm),
				PrivateKeyPEM: keyPEM,
				KeyID:         s.signKeyID,
			}); err == nil {
				document = signed
			}
		}
	}

	_ = os.WriteFile(s.outputPath, document, 0o644)
}

func resolveFamily(format, spdxVersion, cyclonedxVersion string) (family, version string) {
	switch format {
	case "spdx":
		switch v := firstNonEmpty(spdxVersion, "2.3"); v {
		case "3.0", "3.0.0", "3.0.1":
			return "spdx3", v
		default:
			return "spdx", v
		}
	case "spdx-2.3":
		return "spdx", "2.3"
	case "spdx-3.0", "spdx-3.0.0":
		return "spdx3", "3.0"
	case "spdx-3.0.1":
		return "spdx3", "3.0.1"
	case "cyclonedx":
		return "cyclonedx", firstNonEmpty(cyclonedxVersion, "1.6")
	case "cyclonedx-1.4":
		return "cyclonedx", "1.4"
	case "cyclonedx-1.5":
		return "cyclonedx", "1.5"
	case "cyclonedx-1.6":
		return "cyclonedx", "1.6"
	default:
		return "cyclonedx", firstNonEmpty(cyclonedxVersion, "1.6")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// main is required for package main but is never invoked: the binary is
// built with -buildmode=c-shared/c-archive and entered only through the
// exported C functions above.
func main() {}
