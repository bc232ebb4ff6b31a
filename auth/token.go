package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultTokenLifetime is the validity window of an issued token.
	DefaultTokenLifetime = 24 * time.Hour

	// MinSecretLength is the shortest accepted HS256 signing secret, in bytes.
	MinSecretLength = 32
)

// ErrTokenRejected wraps every verification failure.
var ErrTokenRejected = errors.New("auth: token rejected")

// Token is a freshly issued, signed identity token.
type Token struct {
	Value     string    `json:"token"`
	ID        string    `json:"-"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type identityClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// TokenService issues and verifies HS256 identity tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for both issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLifetime overrides DefaultTokenLifetime.
func WithLifetime(d time.Duration) TokenOption {
	return func(s *TokenService) {
		if d > 0 {
			s.lifetime = d
		}
	}
}

// NewTokenService returns a TokenService signing with secret and checking
// issuer and audience on every Verify.
func NewTokenService(secret []byte, issuer, audience string, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: signing secret must be at least %d bytes", MinSecretLength)
	}
	if issuer == "" || audience == "" {
		return nil, errors.New("auth: issuer and audience are required")
	}

	s := &TokenService{
		secret:   append([]byte(nil), secret...),
		issuer:   issuer,
		audience: audience,
		lifetime: DefaultTokenLifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// No leeway: a token is valid iff iat <= now < exp.
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)

	return s, nil
}

// Lifetime returns the validity window applied to issued tokens.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a token for the given identity.
func (s *TokenService) Issue(userID int64, email, givenName, familyName string) (Token, error) {
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.lifetime)
	id := uuid.NewString()

	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        id,
		},
		Email:      email,
		GivenName:  givenName,
		FamilyName: familyName,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("auth: sign token: %w", err)
	}

	return Token{
		Value:     signed,
		ID:        id,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks raw and returns the identity it carries. Any failure,
// including malformed input, is reported as ErrTokenRejected.
//
// A subject that is not an integer yields a Principal with UserID 0, which
// Principal.Valid rejects.
func (s *TokenService) Verify(raw string) (Principal, error) {
	var claims identityClaims
	token, err := s.parser.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	if !token.Valid {
		return Principal{}, ErrTokenRejected
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		userID = 0
	}

	return Principal{
		UserID:     userID,
		Email:      claims.Email,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
	}, nil
}
