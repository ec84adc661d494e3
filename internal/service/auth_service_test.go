package service

import (
	"errors"
	"testing"
	"time"

	"secaware_backend/internal/config"
	"secaware_backend/internal/model"
	"secaware_backend/internal/repository"
	"secaware_backend/internal/util"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-for-auth-service-tests",
			ExpireTime: time.Hour,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	user := &model.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register 返回错误: %v", err)
	}
	if user.Password == "s3cret-pass" {
		t.Error("落库前密码应已加密")
	}

	token, err := svc.Login("alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login 返回错误: %v", err)
	}
	if token == "" {
		t.Fatal("Login 应返回 token")
	}

	claims, err := util.ParseJWT(token, "test-secret-for-auth-service-tests")
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token 里的用户 ID = %d, 期望 %d", claims.UserID, user.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	first := &model.User{Username: "alice", Email: "alice@example.com", Password: "pass1"}
	if err := svc.Register(first); err != nil {
		t.Fatalf("Register 返回错误: %v", err)
	}

	dup := &model.User{Username: "other", Email: "alice@example.com", Password: "pass2"}
	if err := svc.Register(dup); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("错误 = %v, 期望 ErrEmailRegistered", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	user := &model.User{Username: "alice", Email: "alice@example.com", Password: "right-pass"}
	if err := svc.Register(user); err != nil {
		t.Fatalf("Register 返回错误: %v", err)
	}

	if _, err := svc.Login("alice@example.com", "wrong-pass"); err == nil {
		t.Error("错误密码应登录失败")
	}
	if _, err := svc.Login("nobody@example.com", "right-pass"); err == nil {
		t.Error("不存在的邮箱应登录失败")
	}
}
