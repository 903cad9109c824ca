package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

type stubIdentityProvider struct {
	signInErr error
	signUpErr error
	signedOut bool
}

func (p *stubIdentityProvider) SignIn(_ context.Context, email, _ string) (*domain.Identity, error) {
	if p.signInErr != nil {
		return nil, p.signInErr
	}
	return &domain.Identity{UID: "uid-" + email, Email: email}, nil
}

func (p *stubIdentityProvider) SignUp(_ context.Context, email, _ string) (*domain.Identity, error) {
	if p.signUpErr != nil {
		return nil, p.signUpErr
	}
	return &domain.Identity{UID: "uid-" + email, Email: email}, nil
}

func (p *stubIdentityProvider) SignOut(context.Context) error {
	p.signedOut = true
	return nil
}

func (p *stubIdentityProvider) ObserveSession(ctx context.Context) <-chan *domain.Identity {
	ch := make(chan *domain.Identity)
	close(ch)
	return ch
}

type stubProfileRepo struct {
	profiles map[string]*domain.UserProfile
	getErr   error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.UserProfile)}
}

func (r *stubProfileRepo) Get(_ context.Context, uid string) (*domain.UserProfile, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.UserProfile) error {
	if _, ok := r.profiles[p.UID]; ok {
		return domain.ErrProfileExists
	}
	clone := *p
	r.profiles[p.UID] = &clone
	return nil
}

func TestAccountService_RegisterWritesProfile(t *testing.T) {
	profiles := newStubProfileRepo()
	svc := NewAccountService(&stubIdentityProvider{}, profiles, zerolog.Nop())

	p, err := svc.Register(context.Background(), "kap@example.com", "pass123", domain.RoleOfficial, "b1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored := profiles.profiles[p.UID]
	if stored == nil || stored.Role != domain.RoleOfficial || stored.AreaID != "b1" || stored.Email != "kap@example.com" {
		t.Fatalf("unexpected stored profile: %+v", stored)
	}
}

func TestAccountService_RegisterPropagatesAuthError(t *testing.T) {
	profiles := newStubProfileRepo()
	svc := NewAccountService(&stubIdentityProvider{signUpErr: domain.ErrEmailInUse}, profiles, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "x@example.com", "pass123", domain.RoleResident, "b1"); !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
	if len(profiles.profiles) != 0 {
		t.Fatalf("no profile should be written")
	}
}

func TestAccountService_RegisterRejectsUnknownRole(t *testing.T) {
	svc := NewAccountService(&stubIdentityProvider{}, newStubProfileRepo(), zerolog.Nop())

	if _, err := svc.Register(context.Background(), "x@example.com", "pass123", domain.Role("mayor"), "b1"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestAccountService_Login(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.profiles["uid-res@example.com"] = &domain.UserProfile{UID: "uid-res@example.com", Role: domain.RoleResident, AreaID: "b1"}
	svc := NewAccountService(&stubIdentityProvider{}, profiles, zerolog.Nop())

	p, err := svc.Login(context.Background(), "res@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if p == nil || p.Role != domain.RoleResident {
		t.Fatalf("unexpected profile: %+v", p)
	}

	p, err = svc.Login(context.Background(), "noprofile@example.com", "pass123")
	if err != nil || p != nil {
		t.Fatalf("expected nil profile without error, got %+v (%v)", p, err)
	}
}

func TestAccountService_LoginErrors(t *testing.T) {
	svc := NewAccountService(&stubIdentityProvider{signInErr: domain.ErrInvalidCredentials}, newStubProfileRepo(), zerolog.Nop())
	if _, err := svc.Login(context.Background(), "a@example.com", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	profiles := newStubProfileRepo()
	profiles.getErr = errors.New("timeout")
	svc = NewAccountService(&stubIdentityProvider{}, profiles, zerolog.Nop())
	if _, err := svc.Login(context.Background(), "a@example.com", "pass123"); err == nil {
		t.Fatalf("expected profile load failure")
	}
}

func TestAccountService_Logout(t *testing.T) {
	idp := &stubIdentityProvider{}
	svc := NewAccountService(idp, newStubProfileRepo(), zerolog.Nop())

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !idp.signedOut {
		t.Fatalf("expected sign out")
	}
}

func TestAccountService_LogsOnlyUnexpectedFailures(t *testing.T) {
	var buf bytes.Buffer
	identity := &stubIdentityProvider{signInErr: domain.ErrInvalidCredentials}
	svc := NewAccountService(identity, newStubProfileRepo(), zerolog.New(&buf))

	if _, err := svc.Login(context.Background(), "a@example.com", "x"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("credential failure should not be logged, got %s", buf.String())
	}

	identity.signInErr = errors.New("connection refused")
	if _, err := svc.Login(context.Background(), "a@example.com", "x"); err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(buf.String(), "sign in failed") {
		t.Fatalf("expected transport failure to be logged, got %q", buf.String())
	}
}
