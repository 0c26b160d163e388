package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"interviewcoach/internal/config"
	"interviewcoach/internal/model"
)

func newTestAuth(users *fakeUserRepo) *AuthService {
	return NewAuthService(users, config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminEmail:    "Admin@Example.com",
		AdminPassword: "admin-password",
	}, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuth(users)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &model.RegisterRequest{Email: " Ada@Example.com ", Name: "Ada", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Role != model.RoleUser || reg.Token == "" {
		t.Errorf("register response = %+v", reg)
	}

	claims, err := svc.ValidateToken(reg.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != reg.UserID || claims.Role != model.RoleUser {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := svc.Register(ctx, &model.RegisterRequest{Email: "ada@example.com", Password: "another-pass"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: got %v", err)
	}
	if _, err := svc.Login(ctx, &model.LoginRequest{Email: "ada@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "whatever1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
	if _, err := svc.Login(ctx, &model.LoginRequest{Email: "ada@example.com", Password: "correct-horse"}); err != nil {
		t.Errorf("Login: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuth(newFakeUserRepo())
	tests := []model.RegisterRequest{
		{Email: "not-an-email", Password: "long-enough"},
		{Email: "a@example.com", Password: "short"},
	}
	for _, req := range tests {
		if _, err := svc.Register(context.Background(), &req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Register(%+v) = %v, want ErrInvalidInput", req, err)
		}
	}
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newTestAuth(newFakeUserRepo())
	resp, err := svc.issue(&model.User{ID: "u1", Role: model.RoleUser})
	if err != nil {
		t.Fatal(err)
	}

	other := NewAuthService(newFakeUserRepo(), config.AuthConfig{JWTSecret: "different"}, zap.NewNop())
	if _, err := other.ValidateToken(resp.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret: got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.issue(&model.User{ID: "u1", Role: model.RoleUser})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(expired.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: got %v", err)
	}
	if _, err := svc.ValidateToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuth(users)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(ctx); err != nil {
			t.Fatalf("EnsureAdmin: %v", err)
		}
	}
	if len(users.users) != 1 {
		t.Fatalf("users = %d, want 1", len(users.users))
	}
	resp, err := svc.Login(ctx, &model.LoginRequest{Email: "admin@example.com", Password: "admin-password"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if resp.Role != model.RoleAdmin {
		t.Errorf("role = %s", resp.Role)
	}
}
