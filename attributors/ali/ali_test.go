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

package ali

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleALI = `V "GNAT Lib v11"
A -O2
RV NO_IMPLICIT_CONDITIONALS
W ada.text_io%s   a-textio.adb  a-textio.ali
Z system%s        s-system.adb  s-system.ali
D greet.adb          20240101120000 abcd1234 greet%b
D greet.ads          20240101120000 ef567890 greet%s
X 1 greet.ads
G a e
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "greet.ali")
	require.NoError(t, os.WriteFile(path, []byte(sampleALI), 0o644))
	return path
}

func TestParseBaselineRecords(t *testing.T) {
	path := writeSample(t)
	file, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "GNAT Lib v11", file.CompilerVersion)
	assert.Equal(t, []string{"NO_IMPLICIT_CONDITIONALS"}, file.SecurityFlags)
	assert.Equal(t, []string{"ada.text_io"}, file.WithDeps)
	assert.Equal(t, []string{"system"}, file.RuntimeDeps)
	require.Len(t, file.SourceFiles, 2)
	assert.Equal(t, "greet.adb", file.SourceFiles[0].SourceFile)
	assert.Equal(t, "20240101120000", file.SourceFiles[0].Timestamp)
	assert.Equal(t, "abcd1234", file.SourceFiles[0].CRC)
	assert.Equal(t, "greet", file.SourceFiles[0].Package)
}

func TestParsePreservesCrossReferencesVerbatim(t *testing.T) {
	path := writeSample(t)
	file, err := Parse(path)
	require.NoError(t, err)

	require.Len(t, file.CrossReferences, 2)
	assert.Equal(t, "X 1 greet.ads", file.CrossReferences[0])
	assert.Equal(t, "G a e", file.CrossReferences[1])
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.ali"))
	assert.Error(t, err)
}
