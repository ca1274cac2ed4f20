package models

import (
	"time"

	"github.com/google/uuid"

	"certledger/pkg/domain"
)

// EventType labels one entry in the registry's append-only event log.
type EventType string

const (
	EventCertificateIssued  EventType = "certificate_issued"
	EventCertificateRevoked EventType = "certificate_revoked"
	EventIssuerAdded        EventType = "issuer_added"
	EventRoleGranted        EventType = "role_granted"
)

// Event is emitted exactly once per committed mutation. Issued events carry
// the full certificate projection so explorer tooling can render without a
// second read; the journal replays events at startup to rebuild ledger state.
type Event struct {
	ID    uuid.UUID      `json:"id"`
	Type  EventType      `json:"type"`
	At    time.Time      `json:"at"`
	Actor domain.Address `json:"actor"`

	// Payload fields, populated per type.
	Certificate *Certificate   `json:"certificate,omitempty"` // certificate_issued
	TokenID     domain.TokenID `json:"token_id,omitempty"`    // certificate_issued, certificate_revoked
	Issuer      *Issuer        `json:"issuer,omitempty"`      // issuer_added
	Role        *domain.Role   `json:"role,omitempty"`        // role_granted
	Grantee     domain.Address `json:"grantee,omitempty"`     // role_granted, issuer_added
}
