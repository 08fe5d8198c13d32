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

package spdx23

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heimdall-sbom/heimdall/component"
	"github.com/heimdall-sbom/heimdall/sbom"
)

func buildComponent(name, path, sha1, sha256 string) *component.Info {
	c := component.New(name, path)
	c.Checksums[component.ChecksumSHA1] = sha1
	c.Checksums[component.ChecksumSHA256] = sha256
	c.Publish()
	return c
}

func TestGenerateWritesRequiredHeader(t *testing.T) {
	h, err := newHandler("2.3")
	require.NoError(t, err)

	c := buildComponent("app", "/build/app", "aaaa", "bbbb")
	data, err := h.Generate([]*component.Info{c}, sbom.Metadata{
		DocumentName: "test-doc",
		CreatedAt:    "2026-01-01T00:00:00Z",
		CreatorTool:  "heimdall",
	})
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "SPDXVersion: SPDX-2.3")
	assert.Contains(t, text, "DataLicense: CC0-1.0")
	assert.Contains(t, text, "SPDXID: SPDXRef-DOCUMENT")
	assert.Contains(t, text, "PackageName: app")
	assert.True(t, strings.Contains(text, "Relationship: SPDXRef-DOCUMENT DESCRIBES"))
}

func TestValidateContentCatchesMissingHeader(t *testing.T) {
	h, err := newHandler("2.3")
	require.NoError(t, err)

	result := h.ValidateContent([]byte("not an spdx document"))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestDefaultLicensesAreNoAssertion(t *testing.T) {
	h, err := newHandler("2.3")
	require.NoError(t, err)

	c := buildComponent("app", "/build/app", "aaaa", "bbbb")
	data, err := h.Generate([]*component.Info{c}, sbom.Metadata{DocumentName: "d", CreatedAt: "now", CreatorTool: "heimdall"})
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "PackageLicenseDeclared: NOASSERTION")
	assert.Contains(t, text, "PackageLicenseConcluded: NOASSERTION")
}
