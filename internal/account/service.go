// Package account registers portfolio users and exchanges credentials for
// bearer tokens.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-skillsnap/auth"
	"github.com/goliatone/go-skillsnap/internal/model"
	"github.com/goliatone/go-skillsnap/internal/storage"
	"github.com/goliatone/go-skillsnap/repositorycache"
	"github.com/rs/zerolog"
)

var (
	// ErrEmailTaken is returned by Register when the email is already registered.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

// Users is the persistence collaborator.
type Users interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// Hasher hashes and checks passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// Issuer mints bearer tokens.
type Issuer interface {
	Issue(userID int64, email, givenName, familyName string) (auth.Token, error)
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 128)),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 100)),
	)
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Session is returned by Register and Login.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service implements register and login.
type Service struct {
	users  Users
	hasher Hasher
	tokens Issuer
	logger zerolog.Logger

	// dummyHash is verified against when the email is unknown so both
	// failure paths cost one key derivation.
	dummyOnce sync.Once
	dummyHash string
}

func NewService(users Users, hasher Hasher, tokens Issuer, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With().Str("component", "account").Logger(),
	}
}

// Register creates a user and signs them in. Validation failures are
// validation.Errors wrapped with repositorycache.ErrInvalid.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	req.Email = storage.NormalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := req.Validate(); err != nil {
		return Session{}, fmt.Errorf("%w: %w", repositorycache.ErrInvalid, err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.FirstName + " " + req.LastName,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")
	return s.session(user)
}

// Login checks credentials and issues a fresh token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (Session, error) {
	if err := req.Validate(); err != nil {
		return Session{}, fmt.Errorf("%w: %w", repositorycache.ErrInvalid, err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repositorycache.ErrNotFound) {
		s.logger.Debug().Msg("login for unknown email")
		s.hasher.Verify(req.Password, s.decoy())
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.logger.Debug().Int64("user_id", user.ID).Msg("login with wrong password")
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

func (s *Service) decoy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("skillsnap-unknown-account")
		if err != nil {
			s.logger.Warn().Err(err).Msg("could not prepare decoy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *Service) session(user *model.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, user.FirstName, user.LastName)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		Token:     token.Value,
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		ExpiresAt: token.ExpiresAt,
	}, nil
}
