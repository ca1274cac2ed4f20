package domain

import dErrors "certledger/pkg/domain-errors"

// Role identifies an access-control role. Roles persist as 32-byte values:
// the administrator role is the zero value and the issuer role is
// keccak256("ISSUER_ROLE"), the identifiers already written to the ledger by
// the original registry.
type Role Hash

var (
	// RoleAdmin may register issuers and grant further administrators.
	RoleAdmin Role

	// RoleIssuer may mint credentials and revoke its own issuances.
	RoleIssuer = Role{
		0x11, 0x4e, 0x74, 0xf6, 0xea, 0x3b, 0xd8, 0x19,
		0x99, 0x8f, 0x78, 0x68, 0x7b, 0xfc, 0xb1, 0x1b,
		0x14, 0x0d, 0xa0, 0x8e, 0x9b, 0x7d, 0x22, 0x2f,
		0xa9, 0xc1, 0xf1, 0xba, 0x1f, 0x2a, 0xa1, 0x22,
	}
)

// ParseRole accepts the symbolic names used on the HTTP surface as well as
// the persisted 0x-prefixed identifiers.
//
// Errors: CodeInvalidArgument for anything that is neither.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "issuer":
		return RoleIssuer, nil
	}
	h, err := ParseHash(s)
	if err != nil {
		return Role{}, dErrors.New(dErrors.CodeInvalidArgument, "unknown role")
	}
	switch Role(h) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleIssuer:
		return RoleIssuer, nil
	}
	return Role{}, dErrors.New(dErrors.CodeInvalidArgument, "unknown role")
}

// String returns the symbolic name for known roles and the hex identifier
// otherwise.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleIssuer:
		return "issuer"
	}
	return Hash(r).String()
}
