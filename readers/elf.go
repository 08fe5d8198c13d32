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
	"debug/elf"
	"fmt"

	"github.com/heimdall-sbom/heimdall/common"
	"github.com/heimdall-sbom/heimdall/component"
)

// openELF parses an ELF file into an ObjectView using the standard
// library's debug/elf. There is no third-party ELF reader in the
// retrieval pack that improves on debug/elf for section/symbol/dynamic
// enumeration, so this is a justified stdlib use (see DESIGN.md).
func openELF(path string) (*component.ObjectView, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, common.NewError(common.KindUnrecognizedFormat, path, err)
	}
	defer f.Close()

	view := &component.ObjectView{Format: component.FormatELF}

	switch f.Class {
	case elf.ELFCLASS64:
		view.BitWidth = 64
	case elf.ELFCLASS32:
		view.BitWidth = 32
	default:
		return nil, common.NewError(common.KindUnsupportedArchitecture, path, fmt.Errorf("unknown ELF class %v", f.Class))
	}
	if f.Data == elf.ELFDATA2MSB {
		view.Endianness = "big"
	} else {
		view.Endianness = "little"
	}
	view.Arch = machineName(f.Machine)

	for _, sec := range f.Sections {
		view.Sections = append(view.Sections, component.SectionInfo{
			Name:  sec.Name,
			Size:  sec.Size,
			Flags: sectionFlagsString(sec.Flags),
		})
		if sec.Name == ".debug_info" || sec.Name == ".debug_line" || sec.Name == ".debug_str" {
			view.DebugSections = append(view.DebugSections, sec.Name)
		}
		if sec.Name == ".gnu_debuglink" {
			view.DebugInfo = component.DebugInfoExternal
		}
	}
	if len(view.DebugSections) > 0 && view.DebugInfo != component.DebugInfoExternal {
		view.DebugInfo = component.DebugInfoPresent
	}

	if syms, err := f.Symbols(); err == nil {
		view.Symbols = append(view.Symbols, convertELFSymbols(syms)...)
	}
	if dynsyms, err := f.DynamicSymbols(); err == nil {
		view.Symbols = append(view.Symbols, convertELFSymbols(dynsyms)...)
	}

	if needed, err := f.DynString(elf.DT_NEEDED); err == nil {
		view.Dependencies = append(view.Dependencies, needed...)
	}

	return view, nil
}

func convertELFSymbols(syms []elf.Symbol) []component.SymbolInfo {
	out := make([]component.SymbolInfo, 0, len(syms))
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		out = append(out, component.SymbolInfo{
			Name:       Demangle(s.Name),
			RawName:    s.Name,
			Size:       s.Size,
			Binding:    elfBindingString(s.Info),
			Visibility: elfVisibilityString(s.Other),
			Section:    fmt.Sprintf("%d", s.Section),
		})
	}
	return out
}

func elfBindingString(info byte) string {
	switch elf.ST_BIND(info) {
	case elf.STB_LOCAL:
		return "local"
	case elf.STB_WEAK:
		return "weak"
	default:
		return "global"
	}
}

func elfVisibilityString(other byte) string {
	switch elf.ST_VISIBILITY(other) {
	case elf.STV_HIDDEN:
		return "hidden"
	case elf.STV_PROTECTED:
		return "protected"
	case elf.STV_INTERNAL:
		return "internal"
	default:
		return "default"
	}
}

func sectionFlagsString(flags elf.SectionFlag) string {
	s := ""
	if flags&elf.SHF_WRITE != 0 {
		s += "W"
	}
	if flags&elf.SHF_ALLOC != 0 {
		s += "A"
	}
	if flags&elf.SHF_EXECINSTR != 0 {
		s += "X"
	}
	return s
}

func machineName(m elf.Machine) string {
	switch m {
	case elf.EM_X86_64:
		return "x86_64"
	case elf.EM_386:
		return "i386"
	case elf.EM_AARCH64:
		return "arm64"
	case elf.EM_ARM:
		return "arm"
	default:
		return m.String()
	}
}
