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

package readers

import (
	"encoding/binary"

	"github.com/heimdall-sbom/heimdall/component"
)

// detectFormat implements the "first-match by magic" policy of spec.md
// §4.1. No file-extension inference is ever performed.
func detectFormat(header []byte) component.Format {
	if len(header) >= 4 && header[0] == 0x7F && header[1] == 'E' && header[2] == 'L' && header[3] == 'F' {
		return component.FormatELF
	}
	if len(header) >= 4 {
		magic := binary.BigEndian.Uint32(header[:4])
		magicLE := binary.LittleEndian.Uint32(header[:4])
		switch magic {
		case 0xFEEDFACE, 0xFEEDFACF, 0xCAFEBABE, 0xCAFEBABF:
			return component.FormatMachO
		}
		switch magicLE {
		case 0xFEEDFACE, 0xFEEDFACF, 0xCAFEBABE, 0xCAFEBABF:
			return component.FormatMachO
		}
	}
	if len(header) >= 2 && header[0] == 'M' && header[1] == 'Z' {
		return component.FormatPE
	}
	if len(header) >= 8 && string(header[:7]) == "!<arch>" {
		return component.FormatArchive
	}
	return component.FormatUnknown
}
