// Package handler is the thin HTTP layer over the registry service. It
// parses loosely-typed requests into ledger values and translates domain
// errors into JSON envelopes; business rules stay in the ledger.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"certledger/internal/platform/middleware"
	"certledger/internal/registry/service"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/platform/httputil"
)

// Handler wires registry endpoints to the service.
type Handler struct {
	service *service.Service
	tokens  *middleware.TokenService
	logger  *slog.Logger
}

// New constructs a registry handler.
func New(service *service.Service, tokens *middleware.TokenService, logger *slog.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, logger: logger}
}

// Register mounts all registry routes. Reads are public; writes require an
// authenticated caller address.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCaller(h.tokens, h.logger))
		r.Post("/certificates", h.handleMint)
		r.Post("/certificates/batch", h.handleBatchMint)
		r.Post("/certificates/{id}/revoke", h.handleRevoke)
		r.Post("/issuers", h.handleAddIssuer)
		r.Post("/roles/grant", h.handleGrantRole)
	})

	r.Get("/certificates/{id}", h.handleGetCertificate)
	r.Get("/owners/{address}/certificates", h.handleCertificatesByOwner)
	r.Get("/issuers", h.handleListIssuers)
	r.Get("/issuers/{address}/certificates", h.handleIssuedCertificates)
	r.Get("/issuers/{address}/name", h.handleSchoolName)
	r.Get("/hashes/{hash}", h.handleVerifyHash)
	r.Get("/roles/{role}/{address}", h.handleHasRole)
	r.Get("/events", h.handleEvents)
}

func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[mintRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	row, err := req.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	cert, err := h.service.Mint(r.Context(), middleware.Caller(r.Context()), row)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fromCertificate(*cert))
}

func (h *Handler) handleBatchMint(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[batchMintRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	batch, err := req.toModel()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	certs, err := h.service.BatchMint(r.Context(), middleware.Caller(r.Context()), batch)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := batchMintResponse{TokenIDs: make([]domain.TokenID, 0, len(certs))}
	for _, cert := range certs {
		resp.TokenIDs = append(resp.TokenIDs, cert.ID)
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseTokenID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Revoke(r.Context(), middleware.Caller(r.Context()), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddIssuer(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[addIssuerRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	addr, err := domain.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.AddIssuer(r.Context(), middleware.Caller(r.Context()), addr, req.Name); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, issuerResponse{Address: addr.String(), Name: req.Name})
}

func (h *Handler) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[grantRoleRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	addr, err := domain.ParseAddress(req.Address)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.GrantRole(r.Context(), middleware.Caller(r.Context()), role, addr); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseTokenID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cert, err := h.service.Certificate(id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromCertificate(cert))
}

func (h *Handler) handleCertificatesByOwner(w http.ResponseWriter, r *http.Request) {
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, certificateListResponse{
		TokenIDs: h.service.CertificatesByOwner(addr),
	})
}

func (h *Handler) handleIssuedCertificates(w http.ResponseWriter, r *http.Request) {
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, certificateListResponse{
		TokenIDs: h.service.IssuedCertificates(addr),
	})
}

func (h *Handler) handleListIssuers(w http.ResponseWriter, r *http.Request) {
	issuers := h.service.Issuers()
	resp := issuerListResponse{Issuers: make([]issuerResponse, 0, len(issuers))}
	for _, issuer := range issuers {
		resp.Issuers = append(resp.Issuers, issuerResponse{
			Address: issuer.Address.String(),
			Name:    issuer.Name,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSchoolName(w http.ResponseWriter, r *http.Request) {
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, schoolNameResponse{
		Address: addr.String(),
		Name:    h.service.SchoolName(addr),
	})
}

// handleVerifyHash serves public verification: whether the fingerprint is
// used and, if so, the full certificate with its issuing institution.
func (h *Handler) handleVerifyHash(w http.ResponseWriter, r *http.Request) {
	hash, err := domain.ParseHash(chi.URLParam(r, "hash"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verification, err := h.service.VerifyByFingerprint(r.Context(), hash)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteJSON(w, http.StatusOK, verificationResponse{Used: false})
			return
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromVerification(verification))
}

func (h *Handler) handleHasRole(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	addr, err := domain.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, roleResponse{
		Role:    role.String(),
		Address: addr.String(),
		HasRole: h.service.HasRole(role, addr),
	})
}

// handleEvents range-scans the journal for explorer tooling.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	from := queryUint(r, "from", 1)
	to := queryUint(r, "to", from+100)

	events, err := h.service.Events(r.Context(), from, to)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "event scan failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, eventListResponse{Events: events})
}

func queryUint(r *http.Request, key string, fallback uint64) uint64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
