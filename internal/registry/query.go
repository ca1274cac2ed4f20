package registry

import (
	"certledger/internal/registry/models"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Read projections. All are side-effect free, require no role, and return
// copies so callers can never reach the authoritative records.

// Certificate returns the record for id, including revoked records.
//
// Errors: CodeNotFound for an id that was never assigned.
func (l *Ledger) Certificate(id domain.TokenID) (models.Certificate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	cert, ok := l.certs[id]
	if !ok {
		return models.Certificate{}, dErrors.New(dErrors.CodeNotFound, "unknown certificate")
	}
	return *cert, nil
}

// CertificatesByOwner lists currently-held, non-revoked credential ids in
// mint order.
func (l *Ledger) CertificatesByOwner(holder domain.Address) []domain.TokenID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.TokenID{}, l.owned[holder]...)
}

// IssuedCertificates lists every id an issuer ever minted, revoked included.
func (l *Ledger) IssuedCertificates(issuer domain.Address) []domain.TokenID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.TokenID{}, l.issued[issuer]...)
}

// Issuers lists directory entries in registration order.
func (l *Ledger) Issuers() []models.Issuer {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Issuer, 0, len(l.issuerList))
	for _, addr := range l.issuerList {
		out = append(out, l.issuers[addr])
	}
	return out
}

// SchoolName returns the recorded institution name, or "" when the address
// was never registered.
func (l *Ledger) SchoolName(addr domain.Address) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.issuers[addr].Name
}

// HasRole reports current role membership.
func (l *Ledger) HasRole(role domain.Role, addr domain.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.hasRole(role, addr)
}

// IsHashUsed reports whether a fingerprint was ever reserved, including by
// revoked credentials.
func (l *Ledger) IsHashUsed(hash domain.Hash) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, used := l.hashIndex[hash]
	return used
}

// HashToTokenID resolves a fingerprint to the credential that reserved it.
//
// Errors: CodeNotFound for an unused fingerprint.
func (l *Ledger) HashToTokenID(hash domain.Hash) (domain.TokenID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.hashIndex[hash]
	if !ok {
		return 0, dErrors.New(dErrors.CodeNotFound, "unknown fingerprint")
	}
	return id, nil
}
