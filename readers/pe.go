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
	"fmt"

	"github.com/heimdall-sbom/heimdall/common"
	"github.com/heimdall-sbom/heimdall/component"
	peparser "github.com/saferwall/pe"
)

// openPE parses a PE/COFF file with github.com/saferwall/pe, the PE
// reader used elsewhere in the retrieval pack (saferwall/pe itself).
func openPE(path string) (*component.ObjectView, error) {
	pefile, err := peparser.New(path, &peparser.Options{})
	if err != nil {
		return nil, common.NewError(common.KindUnrecognizedFormat, path, err)
	}
	defer pefile.Close()

	if err := pefile.Parse(); err != nil {
		return nil, common.NewError(common.KindUnrecognizedFormat, path, err)
	}

	view := &component.ObjectView{Format: component.FormatPE}
	if pefile.Is64 {
		view.BitWidth = 64
	} else {
		view.BitWidth = 32
	}
	view.Endianness = "little"
	view.Arch = fmt.Sprintf("0x%x", pefile.NtHeader.FileHeader.Machine)

	for _, sec := range pefile.Sections {
		name := sec.NameString()
		view.Sections = append(view.Sections, component.SectionInfo{
			Name: name,
			Size: uint64(sec.Header.SizeOfRawData),
		})
		if name == ".debug" {
			view.DebugInfo = component.DebugInfoPresent
			view.DebugSections = append(view.DebugSections, name)
		}
	}

	for _, imp := range pefile.Imports {
		view.Dependencies = append(view.Dependencies, imp.Name)
		for _, fn := range imp.Functions {
			view.Symbols = append(view.Symbols, component.SymbolInfo{
				Name:    Demangle(fn.Name),
				RawName: fn.Name,
			})
		}
	}

	return view, nil
}
