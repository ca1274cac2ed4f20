// Package fingerprint computes document fingerprints. The registry indexes
// keccak-256 digests, the same construction the issuing frontends produce, so
// a fingerprint computed here verifies against records written by either
// side.
package fingerprint

import (
	"golang.org/x/crypto/sha3"

	"certledger/pkg/domain"
)

// Of returns the keccak-256 fingerprint of raw document bytes.
func Of(data []byte) domain.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out domain.Hash
	h.Sum(out[:0])
	return out
}

// OfString fingerprints the UTF-8 bytes of s.
func OfString(s string) domain.Hash {
	return Of([]byte(s))
}
