package registry

import (
	"certledger/internal/registry/models"
	dErrors "certledger/pkg/domain-errors"
)

// Restore replays journaled events in commit order against a fresh ledger,
// rebuilding records and indices exactly as they stood when the events were
// written. Replay bypasses role gating: every event was already authorized
// when it committed.
//
// Errors: CodeInvalidArgument for an event the ledger cannot apply; the
// journal is append-only, so that indicates corruption, not a caller fault.
func (l *Ledger) Restore(events []models.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, ev := range events {
		switch ev.Type {
		case models.EventRoleGranted:
			if ev.Role == nil || ev.Grantee.IsZero() {
				return dErrors.New(dErrors.CodeInvalidArgument, "role_granted event missing payload")
			}
			l.applyRoleGrant(*ev.Role, ev.Grantee)

		case models.EventIssuerAdded:
			if ev.Issuer == nil {
				return dErrors.New(dErrors.CodeInvalidArgument, "issuer_added event missing payload")
			}
			l.applyIssuerAdded(*ev.Issuer)

		case models.EventCertificateIssued:
			if ev.Certificate == nil {
				return dErrors.New(dErrors.CodeInvalidArgument, "certificate_issued event missing payload")
			}
			cert := *ev.Certificate
			l.insertCertificate(&cert)

		case models.EventCertificateRevoked:
			if _, ok := l.certs[ev.TokenID]; !ok {
				return dErrors.Newf(dErrors.CodeInvalidArgument, "revocation of unknown certificate %s", ev.TokenID)
			}
			l.applyRevoke(ev.TokenID)

		default:
			return dErrors.Newf(dErrors.CodeInvalidArgument, "unknown event type %q", ev.Type)
		}
	}
	return nil
}
