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
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// checksumFile streams path through SHA-1 and SHA-256 simultaneously
// (spec.md §4.1: "Streamed — never loads the whole file") and returns
// lowercase hex digests plus the byte count.
func checksumFile(path string) (sha1hex, sha256hex string, size uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", 0, err
	}
	defer f.Close()

	h1 := sha1.New()
	h256 := sha256.New()
	mw := io.MultiWriter(h1, h256)

	n, err := io.Copy(mw, f)
	if err != nil {
		return "", "", 0, err
	}

	return hex.EncodeToString(h1.Sum(nil)), hex.EncodeToString(h256.Sum(nil)), uint64(n), nil
}
