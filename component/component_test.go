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

package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRequiresSHA256(t *testing.T) {
	c := New("libfoo.so", "/opt/foo/libfoo.so")
	err := c.Publish()
	require.Error(t, err)
	assert.False(t, c.Processed)
	assert.Empty(t, c.IdentityKey)
}

func TestPublishSetsIdentityKeyOnce(t *testing.T) {
	c := New("libfoo.so", "/opt/foo/libfoo.so")
	c.Checksums[ChecksumSHA256] = "deadbeef"

	require.NoError(t, c.Publish())
	assert.True(t, c.Processed)
	assert.NotEmpty(t, c.IdentityKey)

	err := c.Publish()
	assert.Error(t, err, "a second publish must fail")
}

func TestIdentityKeyIsStableForSameInputs(t *testing.T) {
	a := New("libfoo.so", "/opt/foo/libfoo.so")
	a.Checksums[ChecksumSHA256] = "deadbeef"
	require.NoError(t, a.Publish())

	b := New("libfoo.so", "/opt/foo/libfoo.so")
	b.Checksums[ChecksumSHA256] = "deadbeef"
	require.NoError(t, b.Publish())

	assert.Equal(t, a.IdentityKey, b.IdentityKey)
}

func TestIdentityKeyDiffersOnPathOrContent(t *testing.T) {
	a := New("libfoo.so", "/opt/foo/libfoo.so")
	a.Checksums[ChecksumSHA256] = "deadbeef"
	require.NoError(t, a.Publish())

	b := New("libfoo.so", "/opt/bar/libfoo.so")
	b.Checksums[ChecksumSHA256] = "deadbeef"
	require.NoError(t, b.Publish())

	assert.NotEqual(t, a.IdentityKey, b.IdentityKey)
}

func TestAddAliasDeduplicates(t *testing.T) {
	c := New("libfoo.so", "/opt/foo/libfoo.so")
	c.AddAlias("/opt/bar/libfoo.so")
	c.AddAlias("/opt/baz/libfoo.so")
	c.AddAlias("/opt/bar/libfoo.so")

	assert.Equal(t, "/opt/bar/libfoo.so;/opt/baz/libfoo.so", c.Properties["aliases"])
}
