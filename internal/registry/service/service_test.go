package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certledger/internal/registry"
	"certledger/internal/registry/journal"
	"certledger/internal/registry/metrics"
	"certledger/internal/registry/models"
	"certledger/internal/registry/stream"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/fingerprint"
)

var (
	admin  = mustAddr("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	school = mustAddr("0xa1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1")
	holder = mustAddr("0xb2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2")
	rando  = mustAddr("0xc3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3")
)

func mustAddr(s string) domain.Address {
	a, err := domain.ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

type fixture struct {
	svc     *Service
	journal *journal.InMemoryJournal
	stream  *stream.InMemoryPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ledger := registry.NewLedger(admin, registry.WithClock(func() time.Time {
		return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	}))
	j := journal.NewInMemory()
	p := stream.NewInMemory()
	svc := New(ledger,
		WithJournal(j),
		WithStream(p),
		WithMetrics(metrics.NewForTesting()),
		WithLogger(slog.New(slog.DiscardHandler)),
	)

	require.NoError(t, svc.AddIssuer(context.Background(), admin, school, "Tech University"))
	return &fixture{svc: svc, journal: j, stream: p}
}

func req(unique string) models.MintRequest {
	return models.MintRequest{
		Holder:         holder,
		URI:            "ipfs://placeholder",
		StudentName:    "TRAN THI B",
		DegreeName:     "BENG SOFTWARE ENGINEERING",
		FileHash:       fingerprint.OfString(unique),
		DateOfBirth:    "2002-11-30",
		Classification: "Merit",
		FormOfTraining: "Full-time",
		GraduationYear: "2025",
	}
}

func TestServiceEmitsExactlyOncePerCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cert, err := f.svc.Mint(ctx, school, req("H1"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Revoke(ctx, school, cert.ID))

	published := f.stream.Events()
	journaled, loadErr := f.journal.Load(ctx)
	require.NoError(t, loadErr)

	// issuer_added + certificate_issued + certificate_revoked
	require.Len(t, published, 3)
	require.Len(t, journaled, 3)
	assert.Equal(t, models.EventIssuerAdded, published[0].Type)
	assert.Equal(t, models.EventCertificateIssued, published[1].Type)
	assert.Equal(t, models.EventCertificateRevoked, published[2].Type)
}

func TestServiceRejectionEmitsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := len(f.stream.Events())

	_, err := f.svc.Mint(ctx, rando, req("H1"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Len(t, f.stream.Events(), before, "rejected operations emit no events")
}

func TestServiceIdempotentGrantEmitsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.GrantRole(ctx, admin, domain.RoleAdmin, rando))
	before := len(f.stream.Events())

	require.NoError(t, f.svc.GrantRole(ctx, admin, domain.RoleAdmin, rando))
	assert.Len(t, f.stream.Events(), before)
}

func TestServiceJournalFaultDoesNotUnwindCommit(t *testing.T) {
	ledger := registry.NewLedger(admin)
	svc := New(ledger,
		WithJournal(failingJournal{}),
		WithLogger(slog.New(slog.DiscardHandler)),
	)
	ctx := context.Background()

	require.NoError(t, svc.AddIssuer(ctx, admin, school, "Tech University"))
	cert, err := svc.Mint(ctx, school, req("H1"))
	require.NoError(t, err, "journal faults fail open")

	got, err := svc.Certificate(cert.ID)
	require.NoError(t, err)
	assert.True(t, got.Valid)
}

type failingJournal struct{}

func (failingJournal) Append(context.Context, models.Event) error {
	return assert.AnError
}

func (failingJournal) Load(context.Context) ([]models.Event, error) {
	return nil, assert.AnError
}

func (failingJournal) Range(context.Context, uint64, uint64) ([]models.Event, error) {
	return nil, assert.AnError
}

func TestServiceReplayFromJournal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cert, err := f.svc.Mint(ctx, school, req("H1"))
	require.NoError(t, err)
	_, err = f.svc.Mint(ctx, school, req("H2"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Revoke(ctx, school, cert.ID))

	events, err := f.journal.Load(ctx)
	require.NoError(t, err)

	rebuilt := registry.NewLedger(admin)
	require.NoError(t, rebuilt.Restore(events))

	assert.Equal(t, f.svc.CertificatesByOwner(holder), rebuilt.CertificatesByOwner(holder))
	assert.Equal(t, f.svc.IssuedCertificates(school), rebuilt.IssuedCertificates(school))
	got, err := rebuilt.Certificate(cert.ID)
	require.NoError(t, err)
	assert.False(t, got.Valid)
}

func TestVerifyByFingerprint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cert, err := f.svc.Mint(ctx, school, req("H1"))
	require.NoError(t, err)

	t.Run("resolves certificate and school", func(t *testing.T) {
		v, err := f.svc.VerifyByFingerprint(ctx, cert.FileHash)
		require.NoError(t, err)
		assert.Equal(t, cert.ID, v.Certificate.ID)
		assert.Equal(t, "Tech University", v.SchoolName)
	})

	t.Run("unknown fingerprint", func(t *testing.T) {
		_, err := f.svc.VerifyByFingerprint(ctx, fingerprint.OfString("nope"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("revoked certificate still resolves for history", func(t *testing.T) {
		require.NoError(t, f.svc.Revoke(ctx, school, cert.ID))
		v, err := f.svc.VerifyByFingerprint(ctx, cert.FileHash)
		require.NoError(t, err)
		assert.False(t, v.Certificate.Valid)
	})
}
