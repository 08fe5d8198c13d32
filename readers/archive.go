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
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"debug/elf"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/blakesmith/ar"
	"github.com/heimdall-sbom/heimdall/common"
	"github.com/heimdall-sbom/heimdall/component"
)

// openArchive walks a static archive (`!<arch>\n` ar format) with
// github.com/blakesmith/ar, the archive library the teacher depends on
// directly. Each member is read fully (members in practice are small
// relocatable object files) and independently converted into its own
// ObjectView; a member that fails to parse does not abort its siblings
// (spec.md §4.1 "Failure semantics", boundary B4).
func openArchive(r io.Reader) (*component.ObjectView, error) {
	reader := ar.NewReader(r)

	view := &component.ObjectView{Format: component.FormatArchive}

	for {
		hdr, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, common.NewError(common.KindTruncated, "archive", err)
		}

		data, readErr := io.ReadAll(reader)
		member := component.ArchiveMember{Name: hdr.Name}
		if readErr != nil {
			member.MemberError = fmt.Errorf("reading member %s: %w", hdr.Name, readErr)
			view.ArchiveMembers = append(view.ArchiveMembers, member)
			continue
		}

		memberView, convErr := convertArchiveMember(data)
		if convErr != nil {
			member.MemberError = convErr
		} else {
			member.View = memberView
		}
		view.ArchiveMembers = append(view.ArchiveMembers, member)
	}

	return view, nil
}

// convertArchiveMember parses one archive member's bytes as an ELF
// relocatable object. Mach-O/COFF static-archive members are out of
// scope for the baseline (ar archives are overwhelmingly ELF .o on the
// platforms that use the `!<arch>\n` container); a member in an
// unrecognized format still yields an ObjectView with just checksums and
// size, so it is still published as a component rather than aborting.
func convertArchiveMember(data []byte) (*component.ObjectView, error) {
	sha1sum := sha1.Sum(data)
	sha256sum := sha256.Sum256(data)

	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return &component.ObjectView{
			Format: component.FormatUnknown,
			SHA1:   hex.EncodeToString(sha1sum[:]),
			SHA256: hex.EncodeToString(sha256sum[:]),
			Size:   uint64(len(data)),
		}, nil
	}
	defer f.Close()

	view := &component.ObjectView{Format: component.FormatELF}
	view.Arch = machineName(f.Machine)
	for _, sec := range f.Sections {
		view.Sections = append(view.Sections, component.SectionInfo{Name: sec.Name, Size: sec.Size})
	}
	if syms, symErr := f.Symbols(); symErr == nil {
		view.Symbols = convertELFSymbols(syms)
	}
	view.SHA1 = hex.EncodeToString(sha1sum[:])
	view.SHA256 = hex.EncodeToString(sha256sum[:])
	view.Size = uint64(len(data))
	return view, nil
}
