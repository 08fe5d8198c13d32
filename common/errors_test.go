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

package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxonomyErrorUnwraps(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewError(KindPermissionDenied, "/opt/foo/libbar.so", cause)

	assert.True(t, errors.Is(err, cause) || errors.Unwrap(err) == cause)
	assert.Contains(t, err.Error(), "PermissionDenied")
	assert.Contains(t, err.Error(), "/opt/foo/libbar.so")
}

func TestIsMatchesKindThroughWrap(t *testing.T) {
	base := NewError(KindNoDebugInfo, "a.out", nil)
	wrapped := fmt.Errorf("extract: %w", base)

	assert.True(t, Is(wrapped, KindNoDebugInfo))
	assert.False(t, Is(wrapped, KindTruncated))
}

func TestErrorCollectorIgnoresNil(t *testing.T) {
	var c ErrorCollector
	c.Add(nil)
	assert.False(t, c.HasErrors())

	c.Add(errors.New("boom"))
	c.Addf("failed on %s", "item")
	assert.True(t, c.HasErrors())
	assert.Len(t, c.Errors, 2)
}
