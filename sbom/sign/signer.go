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
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"

	"github.com/heimdall-sbom/heimdall/common"
)

// Algorithm is one of the JSF signature algorithms from spec.md §4.5.1.
type Algorithm string

const (
	RS256     Algorithm = "RS256"
	RS384     Algorithm = "RS384"
	RS512     Algorithm = "RS512"
	ES256     Algorithm = "ES256"
	ES384     Algorithm = "ES384"
	ES512     Algorithm = "ES512"
	Ed25519Alg Algorithm = "Ed25519"
)

// Config enumerates the signing parameters of spec.md §4.5.1.
type Config struct {
	Algorithm         Algorithm
	PrivateKeyPEM     []byte
	KeyID             string
	CertificatePEM    []byte
}

// Signature is the JSON shape attached to the document as its top-level
// "signature" object.
type Signature struct {
	Algorithm string   `json:"algorithm"`
	Value     string   `json:"value"`
	KeyID     string   `json:"keyId,omitempty"`
	Excludes  []string `json:"excludes"`
}

// Sign implements spec.md §4.5.1: canonicalize, hash, sign, attach.
// Re-canonicalization after attachment never happens — the caller must
// not re-run Canonicalize on the returned bytes.
func Sign(documentJSON []byte, cfg Config) ([]byte, error) {
	canonical, excludes, err := Canonicalize(documentJSON)
	if err != nil {
		return nil, err
	}

	value, err := signBytes(canonical, cfg)
	if err != nil {
		return nil, err
	}

	sig := Signature{
		Algorithm: string(cfg.Algorithm),
		Value:     value,
		KeyID:     cfg.KeyID,
		Excludes:  excludes,
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(documentJSON, &doc); err != nil {
		return nil, common.NewError(common.KindSignFailed, "invalid JSON", err)
	}
	sigMap := map[string]interface{}{
		"algorithm": sig.Algorithm,
		"value":     sig.Value,
		"excludes":  sig.Excludes,
	}
	if sig.KeyID != "" {
		sigMap["keyId"] = sig.KeyID
	}
	doc["signature"] = sigMap

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, common.NewError(common.KindSignFailed, "re-marshal failed", err)
	}
	return out, nil
}

func signBytes(canonical []byte, cfg Config) (string, error) {
	switch cfg.Algorithm {
	case RS256, RS384, RS512:
		return signRSA(canonical, cfg)
	case ES256, ES384, ES512:
		return signECDSA(canonical, cfg)
	case Ed25519Alg:
		return signEd25519(canonical, cfg)
	default:
		return "", common.NewError(common.KindUnsupportedAlgorithm, string(cfg.Algorithm), nil)
	}
}

func loadPrivateKey(pemBytes []byte) (interface{}, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, common.NewError(common.KindKeyLoadFailed, "no PEM block found", nil)
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	return nil, common.NewError(common.KindKeyLoadFailed, "unrecognized private key encoding", nil)
}

func digestFor(alg Algorithm, data []byte) (crypto.Hash, []byte) {
	switch alg {
	case RS384, ES384:
		sum := sha512.Sum384(data)
		return crypto.SHA384, sum[:]
	case RS512, ES512:
		sum := sha512.Sum512(data)
		return crypto.SHA512, sum[:]
	default: // RS256, ES256
		sum := sha256.Sum256(data)
		return crypto.SHA256, sum[:]
	}
}

func signRSA(canonical []byte, cfg Config) (string, error) {
	key, err := loadPrivateKey(cfg.PrivateKeyPEM)
	if err != nil {
		return "", err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return "", common.NewError(common.KindAlgorithmKeyMismatch, string(cfg.Algorithm), nil)
	}
	hash, digest := digestFor(cfg.Algorithm, canonical)
	sig, err := rsa.SignPKCS1v15(rand.Reader, rsaKey, hash, digest)
	if err != nil {
		return "", common.NewError(common.KindSignFailed, "rsa", err)
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

func signECDSA(canonical []byte, cfg Config) (string, error) {
	key, err := loadPrivateKey(cfg.PrivateKeyPEM)
	if err != nil {
		return "", err
	}
	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return "", common.NewError(common.KindAlgorithmKeyMismatch, string(cfg.Algorithm), nil)
	}
	_, digest := digestFor(cfg.Algorithm, canonical)
	sig, err := ecdsa.SignASN1(rand.Reader, ecKey, digest)
	if err != nil {
		return "", common.NewError(common.KindSignFailed, "ecdsa", err)
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

func signEd25519(canonical []byte, cfg Config) (string, error) {
	key, err := loadPrivateKey(cfg.PrivateKeyPEM)
	if err != nil {
		return "", err
	}
	edKey, ok := key.(ed25519.PrivateKey)
	if !ok {
		return "", common.NewError(common.KindAlgorithmKeyMismatch, string(cfg.Algorithm), nil)
	}
	sig := ed25519.Sign(edKey, canonical)
	return base64.RawURLEncoding.EncodeToString(sig), nil
}
