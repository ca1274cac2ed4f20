// Package service orchestrates registry mutations: ledger commit first, then
// journal append and stream publish, with metrics and tracing around every
// operation.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"certledger/internal/registry"
	"certledger/internal/registry/cache"
	"certledger/internal/registry/journal"
	"certledger/internal/registry/metrics"
	"certledger/internal/registry/models"
	"certledger/internal/registry/stream"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Service wraps the ledger with the surrounding infrastructure. The ledger
// commit is the unit of atomicity; journal and stream are downstream sinks
// and fail open once the commit happened.
type Service struct {
	ledger  *registry.Ledger
	journal journal.Journal
	stream  stream.Publisher
	cache   *cache.VerificationCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithJournal(j journal.Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

func WithStream(p stream.Publisher) Option {
	return func(s *Service) {
		s.stream = p
	}
}

func WithCache(c *cache.VerificationCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service around an initialized ledger.
func New(ledger *registry.Ledger, opts ...Option) *Service {
	s := &Service{
		ledger: ledger,
		logger: slog.Default(),
		tracer: otel.Tracer("certledger/registry"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mint issues one credential on behalf of caller.
func (s *Service) Mint(ctx context.Context, caller domain.Address, req models.MintRequest) (*models.Certificate, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Mint")
	defer span.End()
	start := time.Now()

	cert, event, err := s.ledger.Mint(caller, req)
	if err != nil {
		s.reject(ctx, "mint", caller, err)
		return nil, err
	}

	s.emit(ctx, *event)
	s.observe("mint", start)
	if s.metrics != nil {
		s.metrics.CertificatesIssued.Inc()
	}
	s.logger.InfoContext(ctx, "certificate issued",
		"token_id", cert.ID,
		"issuer", caller,
		"holder", cert.Holder,
	)
	return cert, nil
}

// BatchMint issues one credential per batch row, all or nothing.
func (s *Service) BatchMint(ctx context.Context, caller domain.Address, batch models.BatchMintRequest) ([]*models.Certificate, error) {
	ctx, span := s.tracer.Start(ctx, "registry.BatchMint")
	defer span.End()
	start := time.Now()

	certs, events, err := s.ledger.BatchMint(caller, batch)
	if err != nil {
		s.reject(ctx, "batch_mint", caller, err)
		return nil, err
	}

	for _, event := range events {
		s.emit(ctx, *event)
	}
	s.observe("batch_mint", start)
	if s.metrics != nil {
		s.metrics.CertificatesIssued.Add(float64(len(certs)))
	}
	s.logger.InfoContext(ctx, "batch issued",
		"issuer", caller,
		"count", len(certs),
		"first_token_id", certs[0].ID,
	)
	return certs, nil
}

// Revoke invalidates a credential and drops its cached verification entry.
func (s *Service) Revoke(ctx context.Context, caller domain.Address, id domain.TokenID) error {
	ctx, span := s.tracer.Start(ctx, "registry.Revoke")
	defer span.End()
	start := time.Now()

	event, err := s.ledger.Revoke(caller, id)
	if err != nil {
		s.reject(ctx, "revoke", caller, err)
		return err
	}

	s.emit(ctx, *event)
	s.observe("revoke", start)
	if s.metrics != nil {
		s.metrics.CertificatesRevoked.Inc()
	}
	if s.cache != nil {
		if cert, certErr := s.ledger.Certificate(id); certErr == nil {
			if invErr := s.cache.Invalidate(ctx, cert.FileHash); invErr != nil {
				s.logger.WarnContext(ctx, "verification cache invalidation failed",
					"token_id", id,
					"error", invErr,
				)
			}
		}
	}
	s.logger.InfoContext(ctx, "certificate revoked",
		"token_id", id,
		"revoker", caller,
	)
	return nil
}

// AddIssuer registers an institution and grants it the issuer role.
func (s *Service) AddIssuer(ctx context.Context, caller, addr domain.Address, name string) error {
	ctx, span := s.tracer.Start(ctx, "registry.AddIssuer")
	defer span.End()
	start := time.Now()

	event, err := s.ledger.AddIssuer(caller, addr, name)
	if err != nil {
		s.reject(ctx, "add_issuer", caller, err)
		return err
	}

	s.emit(ctx, *event)
	s.observe("add_issuer", start)
	if s.metrics != nil {
		s.metrics.IssuersRegistered.Inc()
	}
	s.logger.InfoContext(ctx, "issuer registered",
		"issuer", addr,
		"name", name,
	)
	return nil
}

// GrantRole grants a role; idempotent re-grants succeed without an event.
func (s *Service) GrantRole(ctx context.Context, caller domain.Address, role domain.Role, grantee domain.Address) error {
	ctx, span := s.tracer.Start(ctx, "registry.GrantRole")
	defer span.End()
	start := time.Now()

	event, err := s.ledger.GrantRole(caller, role, grantee)
	if err != nil {
		s.reject(ctx, "grant_role", caller, err)
		return err
	}
	if event == nil {
		return nil
	}

	s.emit(ctx, *event)
	s.observe("grant_role", start)
	if s.metrics != nil {
		s.metrics.RolesGranted.Inc()
	}
	s.logger.InfoContext(ctx, "role granted",
		"role", role,
		"grantee", grantee,
	)
	return nil
}

// emit journals and publishes one committed event. Both sinks fail open: the
// ledger already committed, so faults are logged and counted, not unwound.
func (s *Service) emit(ctx context.Context, event models.Event) {
	if s.journal != nil {
		if err := s.journal.Append(ctx, event); err != nil {
			if s.metrics != nil {
				s.metrics.JournalAppendFailures.Inc()
			}
			s.logger.ErrorContext(ctx, "journal append failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"error", err,
			)
		}
	}
	if s.stream != nil {
		if err := s.stream.Publish(ctx, event); err != nil {
			if s.metrics != nil {
				s.metrics.StreamPublishFailures.Inc()
			}
			s.logger.ErrorContext(ctx, "stream publish failed",
				"event_id", event.ID,
				"event_type", event.Type,
				"error", err,
			)
		}
	}
}

func (s *Service) reject(ctx context.Context, operation string, caller domain.Address, err error) {
	if s.metrics != nil {
		s.metrics.OperationRejected.WithLabelValues(operation, string(dErrors.CodeOf(err))).Inc()
	}
	s.logger.WarnContext(ctx, "operation rejected",
		"operation", operation,
		"caller", caller,
		"error", err,
	)
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
