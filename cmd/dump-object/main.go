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

// Command dump-object is a diagnostic tool that renders the member
// listing of an ar static archive or a cpio archive before it reaches
// the extractor, so a user can see exactly which paths
// process_path/process_library will walk. It reads the archive from
// stdin and prints one line per member.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/blakesmith/ar"
	cpio "github.com/surma/gocpio"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	format := "ar"
	if len(args) > 0 {
		format = args[0]
	}

	data, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintln(errOut, err.Error())
		return 1
	}

	switch format {
	case "ar":
		return dumpAr(data, out, errOut)
	case "cpio":
		return dumpCpio(data, out, errOut)
	default:
		fmt.Fprintf(errOut, "unrecognized archive format %q (want ar or cpio)\n", format)
		return 2
	}
}

// dumpAr walks a `!<arch>\n` static archive the same way
// readers.openArchive does, but prints member names and sizes instead
// of converting each member into a component.
func dumpAr(data []byte, out, errOut io.Writer) int {
	reader := ar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintln(errOut, err.Error())
			return 1
		}
		fmt.Fprintf(out, ">> %s (size: %d, mode: %#o)\n", hdr.Name, hdr.Size, hdr.Mode)
	}
	return 0
}

// dumpCpio walks a newc/odc cpio archive, the format Gold's --plugin
// runner and some distro packaging pipelines use for initramfs-style
// payloads that end up feeding binaries to the extractor indirectly.
func dumpCpio(data []byte, out, errOut io.Writer) int {
	reader := cpio.NewReader(bytes.NewReader(data))
	for {
		hdr, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintln(errOut, err.Error())
			return 1
		}
		fmt.Fprintf(out, ">> %s (size: %d, mode: %#o)\n", hdr.Name, hdr.Size, hdr.Mode)
	}
	return 0
}
