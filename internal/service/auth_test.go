package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/chizurashi/chizurashi-server/internal/auth"
	domainerrors "github.com/chizurashi/chizurashi-server/internal/errors"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	st := newTestStore(t)
	logger := slog.New(slog.DiscardHandler)

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 720*time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	sessionService := NewSessionService(st, tokenService, logger)
	return NewAuthService(st, tokenService, sessionService, logger)
}

func registerReq() RegisterRequest {
	return RegisterRequest{
		Email:       "basho@example.com",
		Password:    "password123",
		DisplayName: "芭蕉",
		ClientName:  "test",
	}
}

func TestRegisterAndVerify(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if !strings.HasPrefix(resp.User.ID, "user-") {
		t.Errorf("user id: got %q", resp.User.ID)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("tokens should be issued on registration")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type: got %q", resp.TokenType)
	}

	user, claims, err := svc.VerifyAccessToken(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != resp.User.ID {
		t.Errorf("verified user: got %s", user.ID)
	}
	if claims.DisplayName != "芭蕉" {
		t.Errorf("claims display name: got %q", claims.DisplayName)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Register(ctx, registerReq())
	assertCode(t, err, domainerrors.CodeAlreadyExists)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := registerReq()
	req.Password = "short"
	_, err := svc.Register(ctx, req)
	assertCode(t, err, domainerrors.CodeValidation)

	req = registerReq()
	req.Email = "not-an-email"
	_, err = svc.Register(ctx, req)
	assertCode(t, err, domainerrors.CodeValidation)
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{
			Email:    "basho@example.com",
			Password: "password123",
		})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if resp.AccessToken == "" {
			t.Error("access token should be issued")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{
			Email:    "basho@example.com",
			Password: "wrong password",
		})
		assertCode(t, err, domainerrors.CodeInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		assertCode(t, err, domainerrors.CodeInvalidCredentials)
	})
}

func TestRefreshRotation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: registered.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Error("refresh token should rotate")
	}
	if refreshed.SessionID != registered.SessionID {
		t.Error("session should be reused, not recreated")
	}

	// Old refresh token is dead after rotation.
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: registered.RefreshToken})
	assertCode(t, err, domainerrors.CodeTokenExpired)
}

func TestLogout(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Logout(ctx, registered.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// Refresh no longer possible for the revoked session.
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: registered.RefreshToken})
	assertCode(t, err, domainerrors.CodeTokenExpired)
}
