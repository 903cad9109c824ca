package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	if _, exists := r.accounts[account.Email]; exists {
		return domain.ErrEmailInUse
	}
	clone := *account
	r.accounts[account.Email] = &clone
	return nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	clone := *a
	return &clone, nil
}

type stubLimiter struct {
	failures map[string]int
	limit    int
	resets   int
}

func newStubLimiter(limit int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), limit: limit}
}

func (l *stubLimiter) Allow(_ context.Context, email string) (bool, error) {
	return l.failures[email] < l.limit, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	delete(l.failures, email)
	l.resets++
	return nil
}

func newAuth(repo *stubAccountRepo, limiter *stubLimiter) *AuthService {
	if limiter == nil {
		return NewAuthService(repo, nil, "secret", time.Hour, zerolog.Nop())
	}
	return NewAuthService(repo, limiter, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_SignUp_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuth(repo, nil)

	sess, err := svc.SignUp(context.Background(), " Alice@Example.com ", "pass123")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if sess.Identity.UID == "" || sess.Token == "" {
		t.Fatalf("expected uid and token, got %+v", sess)
	}
	if sess.Identity.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %s", sess.Identity.Email)
	}

	stored := repo.accounts["alice@example.com"]
	if stored == nil {
		t.Fatalf("account not stored")
	}
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_SignUp_Validation(t *testing.T) {
	svc := newAuth(newStubAccountRepo(), nil)

	if _, err := svc.SignUp(context.Background(), "not-an-email", "pass123"); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.SignUp(context.Background(), "bob@example.com", "12345"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	svc := newAuth(newStubAccountRepo(), nil)

	_, _ = svc.SignUp(context.Background(), "bob@example.com", "pass123")
	if _, err := svc.SignUp(context.Background(), "bob@example.com", "pass456"); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestAuthService_SignIn_Success(t *testing.T) {
	svc := newAuth(newStubAccountRepo(), nil)

	created, err := svc.SignUp(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	sess, err := svc.SignIn(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if sess.Identity.UID != created.Identity.UID {
		t.Fatalf("expected uid %s, got %s", created.Identity.UID, sess.Identity.UID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(sess.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != created.Identity.UID {
		t.Fatalf("expected sub %s, got %v", created.Identity.UID, claims["sub"])
	}
	if claims["email"] != "carol@example.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
}

func TestAuthService_SignIn_InvalidPassword(t *testing.T) {
	svc := newAuth(newStubAccountRepo(), nil)

	_, _ = svc.SignUp(context.Background(), "dave@example.com", "goodpass")
	if _, err := svc.SignIn(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_UnknownEmail(t *testing.T) {
	svc := newAuth(newStubAccountRepo(), nil)

	if _, err := svc.SignIn(context.Background(), "ghost@example.com", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_SignIn_MalformedEmail(t *testing.T) {
	svc := newAuth(newStubAccountRepo(), nil)

	if _, err := svc.SignIn(context.Background(), "ghost", "pass123"); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestAuthService_SignIn_Throttled(t *testing.T) {
	repo := newStubAccountRepo()
	limiter := newStubLimiter(2)
	svc := newAuth(repo, limiter)

	_, _ = svc.SignUp(context.Background(), "erin@example.com", "rightpass")

	for i := 0; i < 2; i++ {
		if _, err := svc.SignIn(context.Background(), "erin@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := svc.SignIn(context.Background(), "erin@example.com", "rightpass"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestAuthService_SignIn_ResetsFailures(t *testing.T) {
	repo := newStubAccountRepo()
	limiter := newStubLimiter(3)
	svc := newAuth(repo, limiter)

	_, _ = svc.SignUp(context.Background(), "finn@example.com", "rightpass")
	_, _ = svc.SignIn(context.Background(), "finn@example.com", "wrong")

	if _, err := svc.SignIn(context.Background(), "finn@example.com", "rightpass"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if limiter.failures["finn@example.com"] != 0 || limiter.resets != 1 {
		t.Fatalf("expected failures reset, got %d failures, %d resets", limiter.failures["finn@example.com"], limiter.resets)
	}
}
