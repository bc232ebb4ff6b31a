package auth

import (
	"strings"

	"github.com/rs/zerolog"
)

// Verifier is the part of TokenService the Resolver depends on.
type Verifier interface {
	Verify(raw string) (Principal, error)
}

// Resolver turns an Authorization header into a Principal.
type Resolver struct {
	verifier Verifier
	logger   zerolog.Logger
}

// NewResolver returns a Resolver delegating token checks to verifier.
func NewResolver(verifier Verifier) *Resolver {
	return &Resolver{verifier: verifier, logger: zerolog.Nop()}
}

// WithLogger makes the resolver log rejection reasons at debug level. The
// token itself is never logged.
func (r *Resolver) WithLogger(logger zerolog.Logger) *Resolver {
	r.logger = logger.With().Str("component", "auth").Logger()
	return r
}

// Resolve expects "Bearer <token>". Every failure, including a token whose
// subject is not a positive integer, returns ErrUnauthenticated.
func (r *Resolver) Resolve(header string) (Principal, error) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		r.reject("missing bearer credentials", nil)
		return Principal{}, ErrUnauthenticated
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		r.reject("empty bearer token", nil)
		return Principal{}, ErrUnauthenticated
	}

	p, err := r.verifier.Verify(raw)
	if err != nil {
		r.reject("token rejected", err)
		return Principal{}, ErrUnauthenticated
	}
	if !p.Valid() {
		r.reject("token subject is not a user id", nil)
		return Principal{}, ErrUnauthenticated
	}
	return p, nil
}

func (r *Resolver) reject(reason string, err error) {
	r.logger.Debug().Err(err).Str("reason", reason).Msg("request not authenticated")
}
