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

package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heimdall-sbom/heimdall/component"
	"github.com/heimdall-sbom/heimdall/config"
)

// writeArArchive encodes one common-format ar archive with a single
// member, the same layout github.com/blakesmith/ar reads in
// readers/archive.go: an 8-byte "!<arch>\n" global header followed by a
// fixed 60-byte per-member header and the member's raw bytes.
func writeArArchive(t *testing.T, path, memberName string, content []byte) {
	t.Helper()

	var buf []byte
	buf = append(buf, "!<arch>\n"...)

	header := make([]byte, 60)
	copy(header[0:16], padRight(memberName, 16))
	copy(header[16:28], padRight("0", 12))
	copy(header[28:34], padRight("0", 6))
	copy(header[34:40], padRight("0", 6))
	copy(header[40:48], padRight("100644", 8))
	copy(header[48:58], padRight(fmt.Sprintf("%d", len(content)), 10))
	header[58] = 0x60
	header[59] = 0x0A

	buf = append(buf, header...)
	buf = append(buf, content...)
	if len(content)%2 != 0 {
		buf = append(buf, '\n')
	}

	require.NoError(t, os.WriteFile(path, buf, 0o644))
}

func padRight(s string, width int) []byte {
	out := make([]byte, width)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	return out
}

// TestProcessPathLinksArchiveMemberAsDependency exercises spec.md §8
// scenario S1 end-to-end through the real extraction pipeline (not a
// handler-level fixture): a static archive containing one member must
// yield two published components with a dependsOn edge from the archive
// to its member, not two disconnected siblings.
func TestProcessPathLinksArchiveMemberAsDependency(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "libfoo.a")
	writeArArchive(t, archivePath, "foo.o", []byte("not a real object file, just archive payload"))

	logger := config.NewLogger()
	ex := New(logger, config.Default())

	_, err := ex.ProcessPath(archivePath)
	require.NoError(t, err)

	components := ex.Components()
	require.Len(t, components, 2)

	var archive, member *component.Info
	for _, c := range components {
		switch c.Name {
		case "libfoo.a":
			archive = c
		case "foo.o":
			member = c
		}
	}

	require.NotNil(t, archive, "archive component must be published")
	require.NotNil(t, member, "archive member must be published as its own component")

	assert.Equal(t, archive.IdentityKey, member.ParentIdentityKey, "member must record the archive as its CONTAINS parent")
	assert.Contains(t, archive.Dependencies, member.IdentityKey, "archive must depend on its own member (S1)")
}
