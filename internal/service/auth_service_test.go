package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"edverse/backend/config"
	"edverse/backend/internal/dto"
	"edverse/backend/internal/repository"
	"edverse/backend/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService() (AuthService, *repository.Repository) {
	repo := newMockRepository()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret-0123456789"
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	cfg.Auth.RefreshTokenTTLDefault = 24 * time.Hour
	cfg.Auth.RefreshTokenTTLRemember = 168 * time.Hour

	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, repo
}

func registerTestUser(t *testing.T, svc AuthService, email string) *dto.RegisterResponse {
	t.Helper()
	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:     "张老师",
		Email:    email,
		Password: "password123",
		Role:     "teacher",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	return result
}

// ── Register 测试 ──

func TestAuthService_Register(t *testing.T) {
	svc, _ := setupTestAuthService()

	result := registerTestUser(t, svc, "zhang@example.edu")
	if result.Email != "zhang@example.edu" {
		t.Errorf("期望Email=zhang@example.edu，实际=%s", result.Email)
	}
	if result.Role != "teacher" {
		t.Errorf("期望Role=teacher，实际=%s", result.Role)
	}

	// 邮箱唯一
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name: "李老师", Email: "zhang@example.edu", Password: "password456", Role: "teacher",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("重复邮箱应返回 ErrEmailTaken，实际=%v", err)
	}
}

// ── Login 测试 ──

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupTestAuthService()
	registerTestUser(t, svc, "zhang@example.edu")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhang@example.edu", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("登录应返回 Token 对")
	}
	if result.User.Email != "zhang@example.edu" {
		t.Errorf("期望User.Email=zhang@example.edu，实际=%s", result.User.Email)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _ := setupTestAuthService()
	registerTestUser(t, svc, "zhang@example.edu")

	// 密码错误
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhang@example.edu", Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("密码错误应返回 ErrInvalidCredentials，实际=%v", err)
	}

	// 用户不存在（不泄露具体原因）
	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@example.edu", Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("用户不存在应返回 ErrInvalidCredentials，实际=%v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken(t *testing.T) {
	svc, _ := setupTestAuthService()
	registerTestUser(t, svc, "zhang@example.edu")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "zhang@example.edu", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应签发新的 AccessToken")
	}

	// Access Token 不能当作 Refresh Token 使用
	if _, err := svc.RefreshToken(context.Background(), login.AccessToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("AccessToken 换发应返回 ErrInvalidRefresh，实际=%v", err)
	}

	// 乱串
	if _, err := svc.RefreshToken(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("非法 Token 应返回 ErrInvalidRefresh，实际=%v", err)
	}
}

// ── Logout 测试 ──

func TestAuthService_Logout_WithoutRedis(t *testing.T) {
	svc, _ := setupTestAuthService()

	// Redis 不可用时静默降级，不报错
	err := svc.Logout(context.Background(), "some-jti", time.Now().Add(15*time.Minute), "user-001")
	if err != nil {
		t.Errorf("无 Redis 时 Logout 应降级成功: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := setupTestAuthService()
	user := registerTestUser(t, svc, "zhang@example.edu")
	ctx := context.Background()

	// 原密码错误
	err := svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "new-password-1",
	})
	if !errors.Is(err, ErrWrongOldPassword) {
		t.Errorf("原密码错误应返回 ErrWrongOldPassword，实际=%v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		OldPassword: "password123", NewPassword: "new-password-1",
	}); err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码可登录，旧密码失效
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "zhang@example.edu", Password: "new-password-1"}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "zhang@example.edu", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码登录应失败，实际=%v", err)
	}
}
