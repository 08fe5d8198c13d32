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
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"

	"github.com/heimdall-sbom/heimdall/common"
)

// Verify implements the inverse of Sign (spec.md §4.5.1 "Verification"):
// re-run the exclude-walk, re-canonicalize, and verify against
// publicKeyPEM. The walk strips every "signature" field at any depth, as
// Canonicalize does; the excludes list stored in the signature block is
// not read.
func Verify(signedDocumentJSON []byte, publicKeyPEM []byte) (bool, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(signedDocumentJSON, &doc); err != nil {
		return false, common.NewError(common.KindSignFailed, "invalid JSON", err)
	}
	rawSig, ok := doc["signature"].(map[string]interface{})
	if !ok {
		return false, common.NewError(common.KindSignFailed, "missing signature block", nil)
	}

	algorithm, _ := rawSig["algorithm"].(string)
	valueB64, _ := rawSig["value"].(string)

	canonical, _, err := Canonicalize(signedDocumentJSON)
	if err != nil {
		return false, err
	}

	sigBytes, err := base64.RawURLEncoding.DecodeString(valueB64)
	if err != nil {
		return false, common.NewError(common.KindSignFailed, "invalid base64url signature value", err)
	}

	key, err := loadPublicKey(publicKeyPEM)
	if err != nil {
		return false, err
	}

	return verifyBytes(Algorithm(algorithm), canonical, sigBytes, key)
}

func loadPublicKey(pemBytes []byte) (interface{}, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, common.NewError(common.KindKeyLoadFailed, "no PEM block found", nil)
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		if cert, certErr := x509.ParseCertificate(block.Bytes); certErr == nil {
			return cert.PublicKey, nil
		}
		return nil, common.NewError(common.KindKeyLoadFailed, "unrecognized public key encoding", err)
	}
	return key, nil
}

func verifyBytes(alg Algorithm, canonical, sig []byte, key interface{}) (bool, error) {
	switch alg {
	case RS256, RS384, RS512:
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return false, common.NewError(common.KindAlgorithmKeyMismatch, string(alg), nil)
		}
		hash, digest := digestFor(alg, canonical)
		return rsa.VerifyPKCS1v15(rsaKey, hash, digest, sig) == nil, nil
	case ES256, ES384, ES512:
		ecKey, ok := key.(*ecdsa.PublicKey)
		if !ok {
			return false, common.NewError(common.KindAlgorithmKeyMismatch, string(alg), nil)
		}
		_, digest := digestFor(alg, canonical)
		return ecdsa.VerifyASN1(ecKey, digest, sig), nil
	case Ed25519Alg:
		edKey, ok := key.(ed25519.PublicKey)
		if !ok {
			return false, common.NewError(common.KindAlgorithmKeyMismatch, string(alg), nil)
		}
		return ed25519.Verify(edKey, canonical, sig), nil
	default:
		return false, common.NewError(common.KindUnsupportedAlgorithm, string(alg), nil)
	}
}
