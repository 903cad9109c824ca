package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// MinPasswordLength is the shortest password the identity backend accepts.
const MinPasswordLength = 6

// AuthService implements sign-up and sign-in and issues session tokens.
type AuthService struct {
	accounts  ports.AccountRepository
	limiter   ports.LoginLimiter
	validate  *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds an AuthService. limiter may be nil, which disables
// sign-in throttling.
func NewAuthService(accounts ports.AccountRepository, limiter ports.LoginLimiter, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:  accounts,
		limiter:   limiter,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// SignUp creates an account and returns a session for it.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info().Str("uid", account.UID).Msg("account created")
	return s.issue(account)
}

// SignIn verifies the credentials and returns a session. Repeated failures
// for the same email are throttled when a limiter is configured.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !ok {
			return nil, domain.ErrRateLimited
		}
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err == nil && bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		err = domain.ErrInvalidCredentials
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.recordFailure(ctx, email)
		}
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}
	return s.issue(account)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) checkEmail(email string) error {
	if s.validate.Var(email, "required,email") != nil {
		return domain.ErrInvalidEmail
	}
	return nil
}

func (s *AuthService) issue(account *domain.Account) (*ports.Session, error) {
	claims := jwt.MapClaims{
		"sub":   account.UID,
		"email": account.Email,
		"iat":   s.now().Unix(),
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &ports.Session{
		Identity: domain.Identity{UID: account.UID, Email: account.Email},
		Token:    signed,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
