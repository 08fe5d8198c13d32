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

package cyclonedx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heimdall-sbom/heimdall/component"
	"github.com/heimdall-sbom/heimdall/sbom"
)

func appComponent() *component.Info {
	c := component.New("app", "/build/app")
	c.FileType = component.FileTypeExecutable
	c.Checksums[component.ChecksumSHA256] = "a1b2c3"
	c.Dependencies = []string{"foo.o"}
	c.Publish()
	return c
}

func fooComponent() *component.Info {
	c := component.New("foo.o", "/build/libfoo.a(foo.o)")
	c.FileType = component.FileTypeObjectFile
	c.Checksums[component.ChecksumSHA256] = "d4e5f6"
	c.Publish()
	return c
}

func TestGenerateProducesValidCycloneDXEnvelope(t *testing.T) {
	h, err := newHandler("1.6")
	require.NoError(t, err)

	data, err := h.Generate([]*component.Info{appComponent(), fooComponent()}, sbom.Metadata{
		DocumentName: "test-doc",
		CreatedAt:    "2026-01-01T00:00:00.000Z",
		CreatorTool:  "heimdall",
	})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "CycloneDX", doc["bomFormat"])
	assert.Equal(t, "1.6", doc["specVersion"])

	components, ok := doc["components"].([]interface{})
	require.True(t, ok)
	assert.Len(t, components, 2)
}

func TestDependencyRefsAlwaysExistInComponents(t *testing.T) {
	h, err := newHandler("1.6")
	require.NoError(t, err)

	app := appComponent()
	foo := fooComponent()

	data, err := h.Generate([]*component.Info{app, foo}, sbom.Metadata{DocumentName: "d", CreatedAt: "now", CreatorTool: "heimdall"})
	require.NoError(t, err)

	var doc struct {
		Components []struct {
			BOMRef string `json:"bom-ref"`
		} `json:"components"`
		Dependencies []struct {
			Ref       string   `json:"ref"`
			DependsOn []string `json:"dependsOn"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	knownRefs := make(map[string]bool)
	for _, c := range doc.Components {
		knownRefs[c.BOMRef] = true
	}
	for _, dep := range doc.Dependencies {
		for _, ref := range dep.DependsOn {
			assert.True(t, knownRefs[ref], "dependsOn ref %q must exist in components (P6)", ref)
		}
	}
}

func TestUnknownVersionRejected(t *testing.T) {
	_, err := newHandler("9.9")
	assert.Error(t, err)
}
