package service

import (
	"context"
	"errors"

	"certledger/internal/registry/cache"
	"certledger/internal/registry/models"
	"certledger/pkg/domain"
)

// Read facade. No role is required for any read: public verifiability is a
// functional requirement.

func (s *Service) Certificate(id domain.TokenID) (models.Certificate, error) {
	return s.ledger.Certificate(id)
}

func (s *Service) CertificatesByOwner(holder domain.Address) []domain.TokenID {
	return s.ledger.CertificatesByOwner(holder)
}

func (s *Service) IssuedCertificates(issuer domain.Address) []domain.TokenID {
	return s.ledger.IssuedCertificates(issuer)
}

func (s *Service) Issuers() []models.Issuer {
	return s.ledger.Issuers()
}

func (s *Service) SchoolName(addr domain.Address) string {
	return s.ledger.SchoolName(addr)
}

func (s *Service) HasRole(role domain.Role, addr domain.Address) bool {
	return s.ledger.HasRole(role, addr)
}

func (s *Service) IsHashUsed(hash domain.Hash) bool {
	return s.ledger.IsHashUsed(hash)
}

func (s *Service) HashToTokenID(hash domain.Hash) (domain.TokenID, error) {
	return s.ledger.HashToTokenID(hash)
}

// Events returns the journaled event range [from, to) for explorer scans.
// Returns nothing when the service runs without a journal.
func (s *Service) Events(ctx context.Context, from, to uint64) ([]models.Event, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.Range(ctx, from, to)
}

// Verification bundles what a third party needs to validate a credential.
type Verification struct {
	Certificate models.Certificate
	SchoolName  string
}

// VerifyByFingerprint resolves a fingerprint to its credential and issuing
// institution, serving still-valid certificates from cache when one is
// configured. Cache faults degrade to a ledger read.
//
// Errors: CodeNotFound for an unused fingerprint.
func (s *Service) VerifyByFingerprint(ctx context.Context, hash domain.Hash) (*Verification, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, hash)
		switch {
		case err == nil:
			if s.metrics != nil {
				s.metrics.VerifyCacheHits.Inc()
			}
			return &Verification{Certificate: *cached, SchoolName: s.ledger.SchoolName(cached.Issuer)}, nil
		case !errors.Is(err, cache.ErrMiss):
			s.logger.WarnContext(ctx, "verification cache read failed", "error", err)
		}
		if s.metrics != nil {
			s.metrics.VerifyCacheMisses.Inc()
		}
	}

	id, err := s.ledger.HashToTokenID(hash)
	if err != nil {
		return nil, err
	}
	cert, err := s.ledger.Certificate(id)
	if err != nil {
		return nil, err
	}

	// Only still-valid certificates are cached; revocation invalidates, and
	// an expired entry re-resolving through the ledger is always correct.
	if s.cache != nil && cert.Valid {
		if err := s.cache.Set(ctx, hash, cert); err != nil {
			s.logger.WarnContext(ctx, "verification cache write failed", "error", err)
		}
	}
	return &Verification{Certificate: cert, SchoolName: s.ledger.SchoolName(cert.Issuer)}, nil
}
