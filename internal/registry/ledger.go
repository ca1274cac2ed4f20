// Package registry implements the credential registry state machine: role
// table, issuer directory, certificate store, and the lookup indices, all
// mutated under a single writer lock with validate-then-apply discipline so
// every operation is all-or-nothing.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"certledger/internal/registry/models"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Clock supplies issue timestamps. Injected so tests and journal replay stay
// deterministic.
type Clock func() time.Time

// Ledger is the authoritative registry aggregate. No external component
// mutates it except through its operation methods; reads hand out copies.
type Ledger struct {
	mu    sync.RWMutex
	clock Clock

	roles      map[domain.Role]map[domain.Address]bool
	issuers    map[domain.Address]models.Issuer
	issuerList []domain.Address

	certs  map[domain.TokenID]*models.Certificate
	nextID domain.TokenID

	hashIndex map[domain.Hash]domain.TokenID
	owned     map[domain.Address][]domain.TokenID
	issued    map[domain.Address][]domain.TokenID
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the issue timestamp source.
func WithClock(clock Clock) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// NewLedger constructs an empty registry with the genesis administrator, the
// bootstrap role every later grant descends from.
func NewLedger(genesisAdmin domain.Address, opts ...Option) *Ledger {
	l := &Ledger{
		clock:     time.Now,
		roles:     make(map[domain.Role]map[domain.Address]bool),
		issuers:   make(map[domain.Address]models.Issuer),
		certs:     make(map[domain.TokenID]*models.Certificate),
		nextID:    1,
		hashIndex: make(map[domain.Hash]domain.TokenID),
		owned:     make(map[domain.Address][]domain.TokenID),
		issued:    make(map[domain.Address][]domain.TokenID),
	}
	for _, opt := range opts {
		opt(l)
	}
	if !genesisAdmin.IsZero() {
		l.applyRoleGrant(domain.RoleAdmin, genesisAdmin)
	}
	return l
}

// GrantRole grants role to grantee. Idempotent: granting an already-held role
// succeeds without emitting an event. A revoked role never invalidates past
// actions; there is no revoke-role operation.
//
// Errors: CodeUnauthorized when caller is not an administrator,
// CodeInvalidArgument for a zero grantee.
func (l *Ledger) GrantRole(caller domain.Address, role domain.Role, grantee domain.Address) (*models.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasRole(domain.RoleAdmin, caller) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is not an administrator")
	}
	if grantee.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "grantee address is required")
	}
	if l.hasRole(role, grantee) {
		return nil, nil
	}

	l.applyRoleGrant(role, grantee)
	r := role
	return &models.Event{
		ID:      uuid.New(),
		Type:    models.EventRoleGranted,
		At:      l.clock().UTC(),
		Actor:   caller,
		Role:    &r,
		Grantee: grantee,
	}, nil
}

// AddIssuer registers an institution: grants the issuer role, records the
// display name, and appends the address to the enumerable issuer set as one
// atomic unit.
//
// Errors: CodeUnauthorized when caller is not an administrator,
// CodeInvalidArgument for an empty name or zero address, CodeConflict when
// the address is already registered.
func (l *Ledger) AddIssuer(caller, addr domain.Address, name string) (*models.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasRole(domain.RoleAdmin, caller) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller is not an administrator")
	}
	if addr.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "issuer address is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "institution name is required")
	}
	if _, exists := l.issuers[addr]; exists {
		return nil, dErrors.New(dErrors.CodeConflict, "issuer already registered")
	}

	issuer := models.Issuer{Address: addr, Name: name, AddedAt: l.clock().UTC()}
	l.applyIssuerAdded(issuer)
	return &models.Event{
		ID:      uuid.New(),
		Type:    models.EventIssuerAdded,
		At:      issuer.AddedAt,
		Actor:   caller,
		Issuer:  &issuer,
		Grantee: addr,
	}, nil
}

// Mint issues one credential to holder and updates every index in the same
// critical section. The id counter only advances on success.
//
// Errors: CodeUnauthorized when caller lacks the issuer role,
// CodeDuplicateFingerprint when the file hash was ever used before,
// CodeInvalidArgument for malformed rows.
func (l *Ledger) Mint(caller domain.Address, req models.MintRequest) (*models.Certificate, *models.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkMint(caller, req, nil); err != nil {
		return nil, nil, err
	}
	cert := l.applyMint(caller, req, l.clock().UTC())

	out := *cert
	return &out, issuedEvent(cert, caller), nil
}

// BatchMint issues one credential per row, ids assigned consecutively in row
// order. The whole batch is validated before any row is applied, so a failure
// on any row (including a fingerprint duplicated within the batch) leaves
// zero credentials persisted.
//
// Errors: everything Mint can fail with, plus CodeLengthMismatch from the
// parallel-array shape.
func (l *Ledger) BatchMint(caller domain.Address, batch models.BatchMintRequest) ([]*models.Certificate, []*models.Event, error) {
	rows, err := batch.Rows()
	if err != nil {
		return nil, nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[domain.Hash]bool, len(rows))
	for i, row := range rows {
		if err := l.checkMint(caller, row, seen); err != nil {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeOf(err), fmt.Sprintf("batch row %d", i))
		}
		seen[row.FileHash] = true
	}

	now := l.clock().UTC()
	certs := make([]*models.Certificate, 0, len(rows))
	events := make([]*models.Event, 0, len(rows))
	for _, row := range rows {
		cert := l.applyMint(caller, row, now)
		out := *cert
		certs = append(certs, &out)
		events = append(events, issuedEvent(cert, caller))
	}
	return certs, events, nil
}

// Revoke marks a credential invalid and clears current ownership. The record,
// the issuance history, and the fingerprint reservation all survive; there is
// no path back to valid.
//
// Errors: CodeNotFound for an unknown id, CodeUnauthorized when caller is
// neither an administrator nor the stored issuer, CodeAlreadyRevoked on a
// second revocation.
func (l *Ledger) Revoke(caller domain.Address, id domain.TokenID) (*models.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cert, ok := l.certs[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown certificate")
	}
	if !l.hasRole(domain.RoleAdmin, caller) && caller != cert.Issuer {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller may not revoke this certificate")
	}
	if !cert.Valid {
		return nil, dErrors.New(dErrors.CodeAlreadyRevoked, "certificate already revoked")
	}

	l.applyRevoke(id)
	return &models.Event{
		ID:      uuid.New(),
		Type:    models.EventCertificateRevoked,
		At:      l.clock().UTC(),
		Actor:   caller,
		TokenID: id,
	}, nil
}

// checkMint validates every mint precondition without touching state. seen
// carries fingerprints staged earlier in the same batch.
func (l *Ledger) checkMint(caller domain.Address, req models.MintRequest, seen map[domain.Hash]bool) error {
	if !l.hasRole(domain.RoleIssuer, caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not an issuer")
	}
	if _, used := l.hashIndex[req.FileHash]; used || seen[req.FileHash] {
		return dErrors.New(dErrors.CodeDuplicateFingerprint, "fingerprint already reserved")
	}
	return req.Validate()
}

func (l *Ledger) applyMint(issuer domain.Address, req models.MintRequest, at time.Time) *models.Certificate {
	cert := &models.Certificate{
		ID:             l.nextID,
		Holder:         req.Holder,
		Issuer:         issuer,
		URI:            req.URI,
		StudentName:    req.StudentName,
		DegreeName:     req.DegreeName,
		FileHash:       req.FileHash,
		DateOfBirth:    req.DateOfBirth,
		Classification: req.Classification,
		FormOfTraining: req.FormOfTraining,
		GraduationYear: req.GraduationYear,
		IssuedAt:       at,
		Valid:          true,
	}
	l.insertCertificate(cert)
	return cert
}

// insertCertificate writes a record and all its index entries. Shared with
// journal replay, which carries pre-assigned ids.
func (l *Ledger) insertCertificate(cert *models.Certificate) {
	l.certs[cert.ID] = cert
	l.hashIndex[cert.FileHash] = cert.ID
	l.owned[cert.Holder] = append(l.owned[cert.Holder], cert.ID)
	l.issued[cert.Issuer] = append(l.issued[cert.Issuer], cert.ID)
	if cert.ID >= l.nextID {
		l.nextID = cert.ID + 1
	}
}

func (l *Ledger) applyRevoke(id domain.TokenID) {
	cert := l.certs[id]
	cert.Valid = false
	held := l.owned[cert.Holder]
	for i, owned := range held {
		if owned == id {
			l.owned[cert.Holder] = append(held[:i], held[i+1:]...)
			break
		}
	}
}

func (l *Ledger) applyRoleGrant(role domain.Role, grantee domain.Address) {
	members, ok := l.roles[role]
	if !ok {
		members = make(map[domain.Address]bool)
		l.roles[role] = members
	}
	members[grantee] = true
}

func (l *Ledger) applyIssuerAdded(issuer models.Issuer) {
	l.applyRoleGrant(domain.RoleIssuer, issuer.Address)
	l.issuers[issuer.Address] = issuer
	l.issuerList = append(l.issuerList, issuer.Address)
}

func (l *Ledger) hasRole(role domain.Role, addr domain.Address) bool {
	return l.roles[role][addr]
}

func issuedEvent(cert *models.Certificate, actor domain.Address) *models.Event {
	projection := *cert
	return &models.Event{
		ID:          uuid.New(),
		Type:        models.EventCertificateIssued,
		At:          cert.IssuedAt,
		Actor:       actor,
		TokenID:     cert.ID,
		Certificate: &projection,
	}
}
