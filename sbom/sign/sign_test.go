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

package sign

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateEd25519PEMPair(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	privPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return
}

func sampleDocument() []byte {
	return []byte(`{"bomFormat":"CycloneDX","specVersion":"1.6","components":[{"name":"libfoo"}]}`)
}

func TestCanonicalizeSortsKeysAndIsIdempotent(t *testing.T) {
	canon1, excludes, err := Canonicalize(sampleDocument())
	require.NoError(t, err)
	assert.Empty(t, excludes)

	canon2, _, err := Canonicalize(canon1)
	require.NoError(t, err)
	assert.Equal(t, canon1, canon2, "canonicalizing already-canonical bytes must be a no-op (P4)")
}

func TestCanonicalizeStripsSignatureField(t *testing.T) {
	doc := []byte(`{"bomFormat":"CycloneDX","signature":{"algorithm":"Ed25519","value":"abc"}}`)
	canon, excludes, err := Canonicalize(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"/signature"}, excludes)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(canon, &decoded))
	_, hasSignature := decoded["signature"]
	assert.False(t, hasSignature)
}

func TestSignAndVerifyRoundTripEd25519(t *testing.T) {
	privPEM, pubPEM := generateEd25519PEMPair(t)

	signed, err := Sign(sampleDocument(), Config{
		Algorithm:     Ed25519Alg,
		PrivateKeyPEM: privPEM,
		KeyID:         "test-key-1",
	})
	require.NoError(t, err)

	ok, err := Verify(signed, pubPEM)
	require.NoError(t, err)
	assert.True(t, ok, "a genuine signature must verify (P5)")

	mutated := append([]byte(nil), signed...)
	for i := len(mutated) - 1; i >= 0; i-- {
		if mutated[i] == 'f' {
			mutated[i] = 'g'
			break
		}
	}
	ok, err = Verify(mutated, pubPEM)
	require.NoError(t, err)
	assert.False(t, ok, "a one-byte mutation must invalidate the signature (P5)")
}

func TestVerifyRejectsWrongAlgorithmKeyPairing(t *testing.T) {
	_, pubPEM := generateEd25519PEMPair(t)
	signed := []byte(`{"bomFormat":"CycloneDX","signature":{"algorithm":"RS256","value":"AAAA","excludes":["/signature"]}}`)

	_, err := Verify(signed, pubPEM)
	assert.Error(t, err)
}
