package domain

import (
	"encoding/hex"
	"strings"

	dErrors "certledger/pkg/domain-errors"
)

// HashLength is the byte width of a document fingerprint.
const HashLength = 32

// Hash is a fixed-width content fingerprint of the off-chain document backing
// a credential. The registry never stores the document itself.
type Hash [HashLength]byte

// ZeroHash doubles as the administrator role identifier, matching the
// persisted form of the original registry.
var ZeroHash Hash

// ParseHash constructs a Hash from its 0x-prefixed hex form.
//
// Errors: CodeInvalidArgument when the input is empty, unprefixed, has the
// wrong width, or is not hex.
func ParseHash(s string) (Hash, error) {
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return Hash{}, dErrors.New(dErrors.CodeInvalidArgument, "hash must be 0x-prefixed")
	}
	if len(raw) != HashLength*2 {
		return Hash{}, dErrors.New(dErrors.CodeInvalidArgument, "hash must be 32 bytes")
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Hash{}, dErrors.New(dErrors.CodeInvalidArgument, "hash is not valid hex")
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// String renders the canonical lowercase 0x-prefixed form.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}
