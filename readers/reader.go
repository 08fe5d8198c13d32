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

// Package readers implements the Binary Object Readers (spec.md §4.1):
// format detection by magic bytes, and format-specific parsing of ELF,
// Mach-O (including universal/fat), PE and ar archives into the neutral
// component.ObjectView.
package readers

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/heimdall-sbom/heimdall/common"
	"github.com/heimdall-sbom/heimdall/component"
)

const magicPeekSize = 64

// Open decides the format of path by magic bytes, parses it into an
// ObjectView and computes its checksums. This is the single entry point
// the extractor calls for every input path and every resolved dependency.
func Open(path string) (*component.ObjectView, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewError(common.KindNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, common.NewError(common.KindPermissionDenied, path, err)
		}
		return nil, common.NewError(common.KindNotFound, path, err)
	}
	defer f.Close()

	header := make([]byte, magicPeekSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, common.NewError(common.KindTruncated, path, err)
	}
	header = header[:n]

	format := detectFormat(header)
	if format == component.FormatUnknown {
		return nil, common.NewError(common.KindUnrecognizedFormat, path, fmt.Errorf("no known magic matched"))
	}

	sha1hex, sha256hex, size, err := checksumFile(path)
	if err != nil {
		return nil, common.NewError(common.KindTruncated, path, err)
	}

	var view *component.ObjectView
	switch format {
	case component.FormatELF:
		view, err = openELF(path)
	case component.FormatMachO:
		view, err = openMachO(path)
	case component.FormatPE:
		view, err = openPE(path)
	case component.FormatArchive:
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, common.NewError(common.KindTruncated, path, readErr)
		}
		view, err = openArchive(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}

	view.SHA1 = sha1hex
	view.SHA256 = sha256hex
	view.Size = size
	return view, nil
}
