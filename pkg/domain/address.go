// Package domain defines the typed ledger values used across the registry.
// Values are constructed via Parse functions at trust boundaries; direct
// conversion bypasses validation.
package domain

import (
	"encoding/hex"
	"strings"

	dErrors "certledger/pkg/domain-errors"
)

// AddressLength is the byte width of a ledger address.
const AddressLength = 20

// Address identifies a party on the ledger: an administrator, an issuing
// institution, or a credential holder.
type Address [AddressLength]byte

// ZeroAddress is never a valid holder or issuer.
var ZeroAddress Address

// ParseAddress constructs an Address from its 0x-prefixed hex form.
//
// Errors: CodeInvalidArgument when the input is empty, unprefixed, has the
// wrong width, or is not hex.
func ParseAddress(s string) (Address, error) {
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return Address{}, dErrors.New(dErrors.CodeInvalidArgument, "address must be 0x-prefixed")
	}
	if len(raw) != AddressLength*2 {
		return Address{}, dErrors.New(dErrors.CodeInvalidArgument, "address must be 20 bytes")
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return Address{}, dErrors.New(dErrors.CodeInvalidArgument, "address is not valid hex")
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String renders the canonical lowercase 0x-prefixed form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}
