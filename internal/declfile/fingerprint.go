package declfile

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

var canonicalMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: canonical encoder: %v", err))
	}
	return em
}()

// MarshalCanonical encodes the declarations as canonical CBOR. Two files
// that differ only in YAML layout, comments or key order encode the same.
func (f *File) MarshalCanonical() ([]byte, error) {
	type fileAlias File
	data, err := canonicalMode.Marshal((*fileAlias)(f))
	if err != nil {
		return nil, fmt.Errorf("cbor encoding failed: %w", err)
	}
	return data, nil
}

// Fingerprint is the hex BLAKE2b-256 digest of MarshalCanonical.
func (f *File) Fingerprint() (string, error) {
	data, err := f.MarshalCanonical()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Canonical exposes the shared canonical CBOR encoder.
func Canonical() cbor.EncMode { return canonicalMode }
