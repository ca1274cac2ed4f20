// Package middleware carries the HTTP middlewares shared across handlers.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
	"certledger/pkg/platform/httputil"
)

// TokenService issues and verifies bearer tokens whose subject is the
// caller's ledger address. Authentication only proves control of the address;
// authorization stays inside the ledger's role checks.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
}

// NewTokenService builds a token service with an HMAC signing key.
func NewTokenService(signingKey string) *TokenService {
	return &TokenService{signingKey: []byte(signingKey), ttl: time.Hour}
}

// Issue mints a token for addr. Used by operator tooling and tests.
func (t *TokenService) Issue(addr domain.Address) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   addr.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	})
	return token.SignedString(t.signingKey)
}

// Verify validates a token and returns the caller address from its subject.
//
// Errors: CodeUnauthenticated for anything invalid, expired, or malformed.
func (t *TokenService) Verify(tokenString string) (domain.Address, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(*jwt.Token) (any, error) { return t.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return domain.Address{}, dErrors.Wrap(err, dErrors.CodeUnauthenticated, "invalid or expired token")
	}
	if !token.Valid {
		return domain.Address{}, dErrors.New(dErrors.CodeUnauthenticated, "invalid or expired token")
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return domain.Address{}, dErrors.Wrap(err, dErrors.CodeUnauthenticated, "token has no subject")
	}
	addr, err := domain.ParseAddress(subject)
	if err != nil {
		return domain.Address{}, dErrors.Wrap(err, dErrors.CodeUnauthenticated, "token subject is not an address")
	}
	return addr, nil
}

type callerKey struct{}

// Caller returns the authenticated address, or the zero address when the
// request did not pass RequireCaller.
func Caller(ctx context.Context) domain.Address {
	addr, _ := ctx.Value(callerKey{}).(domain.Address)
	return addr
}

// RequireCaller authenticates the bearer token and stores the caller address
// in the request context.
func RequireCaller(tokens *TokenService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthenticated, "missing bearer token"))
				return
			}
			addr, err := tokens.Verify(raw)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected unauthenticated request",
					"path", r.URL.Path,
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), callerKey{}, addr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
