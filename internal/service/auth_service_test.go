package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-dashboard/internal/config"
	"github.com/spec-kit/triage-dashboard/internal/domain"
	apperrors "github.com/spec-kit/triage-dashboard/pkg/util"
)

type fakeAdminRepo struct {
	byName map[string]*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byName: make(map[string]*domain.Admin)}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	admin.ID = admin.Name
	r.byName[admin.Name] = admin
	return nil
}

func (r *fakeAdminRepo) GetByName(_ context.Context, name string) (*domain.Admin, error) {
	admin, ok := r.byName[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return admin, nil
}

func testAuthService(repo *fakeAdminRepo) *AuthService {
	return NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            4, // bcrypt.MinCost, keeps the test fast
	}, repo)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := testAuthService(repo)

	admin, err := svc.RegisterAdmin(context.Background(), "Tanay", "tanay@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if admin.PasswordHash == "correct-horse" {
		t.Fatal("password stored in plaintext")
	}
	if !admin.Active {
		t.Fatal("new admin must be active")
	}

	token, expiresAt, loggedIn, err := svc.Login(context.Background(), "Tanay", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatal("empty token or expiry")
	}
	if loggedIn.Name != "Tanay" {
		t.Fatalf("Name = %q", loggedIn.Name)
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.AdminName != "Tanay" {
		t.Fatalf("claims.AdminName = %q", claims.AdminName)
	}
}

func TestLoginFailures(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := testAuthService(repo)
	if _, err := svc.RegisterAdmin(context.Background(), "Tanay", "tanay@example.com", "correct-horse"); err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}

	wantCode := func(err error, code string) {
		t.Helper()
		var derr *apperrors.DomainError
		if !errors.As(err, &derr) || derr.Code != code {
			t.Fatalf("got %v, want %s", err, code)
		}
	}

	_, _, _, err := svc.Login(context.Background(), "Nobody", "whatever123")
	wantCode(err, "UNAUTHORIZED")

	_, _, _, err = svc.Login(context.Background(), "Tanay", "wrong-password")
	wantCode(err, "UNAUTHORIZED")

	repo.byName["Tanay"].Active = false
	_, _, _, err = svc.Login(context.Background(), "Tanay", "correct-horse")
	wantCode(err, "FORBIDDEN")
}

func TestRegisterAdminValidation(t *testing.T) {
	svc := testAuthService(newFakeAdminRepo())
	for _, tc := range []struct{ name, email, password string }{
		{"", "a@example.com", "password1"},
		{"Tanay", "", "password1"},
		{"Tanay", "a@example.com", "short"},
	} {
		if _, err := svc.RegisterAdmin(context.Background(), tc.name, tc.email, tc.password); err == nil {
			t.Fatalf("expected validation error for %+v", tc)
		}
	}
}
