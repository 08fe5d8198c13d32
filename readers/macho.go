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

	macho "github.com/blacktop/go-macho"
	"github.com/heimdall-sbom/heimdall/common"
	"github.com/heimdall-sbom/heimdall/component"
)

// openMachO parses a Mach-O file with github.com/blacktop/go-macho. A
// universal/fat binary produces one ObjectView per architecture slice
// (spec.md §4.1 "Universal Mach-O"); the first readable slice is returned
// as the primary view and the others are attached as sibling archive-style
// members so the extractor can publish one component per slice with a
// distinct identity_key (boundary B3).
func openMachO(path string) (*component.ObjectView, error) {
	if fat, err := macho.OpenFat(path); err == nil {
		defer fat.Close()
		if len(fat.Arches) == 0 {
			return nil, common.NewError(common.KindUnrecognizedFormat, path, fmt.Errorf("fat Mach-O with no architecture slices"))
		}
		var primary *component.ObjectView
		var siblings []component.ArchiveMember
		for _, arch := range fat.Arches {
			view, convErr := convertMachOFile(arch.File)
			if convErr != nil {
				siblings = append(siblings, component.ArchiveMember{
					Name:        fmt.Sprintf("%s#%s", path, arch.CPU),
					MemberError: convErr,
				})
				continue
			}
			view.SliceProperties = map[string]string{"arch": arch.CPU.String()}
			if primary == nil {
				primary = view
			} else {
				siblings = append(siblings, component.ArchiveMember{
					Name: fmt.Sprintf("%s#%s", path, arch.CPU),
					View: view,
				})
			}
		}
		if primary == nil {
			return nil, common.NewError(common.KindUnrecognizedFormat, path, fmt.Errorf("no readable architecture slice in fat Mach-O"))
		}
		primary.ArchiveMembers = siblings
		return primary, nil
	}

	f, err := macho.Open(path)
	if err != nil {
		return nil, common.NewError(common.KindUnrecognizedFormat, path, err)
	}
	defer f.Close()
	return convertMachOFile(f)
}

func convertMachOFile(f *macho.File) (*component.ObjectView, error) {
	view := &component.ObjectView{Format: component.FormatMachO}

	if f.FileTOC != nil && f.FileTOC.FileHeader.Magic == 0xFEEDFACF {
		view.BitWidth = 64
	} else {
		view.BitWidth = 32
	}
	view.Endianness = "little"
	view.Arch = f.CPU.String()

	for _, sec := range f.Sections {
		view.Sections = append(view.Sections, component.SectionInfo{
			Name: sec.Name,
			Size: sec.Size,
		})
		if sec.Name == "__debug_info" || sec.Name == "__debug_line" {
			view.DebugSections = append(view.DebugSections, sec.Name)
		}
	}
	if len(view.DebugSections) > 0 {
		view.DebugInfo = component.DebugInfoPresent
	}

	if f.Symtab != nil {
		for _, sym := range f.Symtab.Syms {
			if sym.Name == "" {
				continue
			}
			view.Symbols = append(view.Symbols, component.SymbolInfo{
				Name:    Demangle(sym.Name),
				RawName: sym.Name,
				Section: fmt.Sprintf("%d", sym.Sect),
			})
		}
	}

	if libs, err := f.ImportedLibraries(); err == nil {
		view.Dependencies = append(view.Dependencies, libs...)
	}

	return view, nil
}
