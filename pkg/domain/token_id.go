package domain

import (
	"strconv"

	dErrors "certledger/pkg/domain-errors"
)

// TokenID identifies one issued credential. IDs are allocated sequentially
// starting at 1 and never reused; 0 is not a valid id.
type TokenID uint64

// ParseTokenID constructs a TokenID from its decimal form.
//
// Errors: CodeInvalidArgument when the input is not a positive integer.
func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidArgument, "token id must be a positive integer")
	}
	return TokenID(n), nil
}

// String renders the decimal form.
func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
