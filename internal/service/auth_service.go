package service

import (
	"context"
	"emotioncolor/internal/auth"
	"emotioncolor/internal/entity"
	"emotioncolor/internal/model"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	GenerateToken(id auth.Identity) (string, time.Time, error)
}

// PasswordHasher produces digests for newly stored secrets.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    uint
	Email     string
	Role      string
}

// AuthService 认证服务，封装注册、登录与找回密码逻辑
type AuthService struct {
	repo   model.Repository
	tokens TokenIssuer
	hasher PasswordHasher

	// 用户不存在时用于比对的摘要，使两条失败路径耗时一致
	dummyDigest string
}

// NewAuthService 创建认证服务实例
func NewAuthService(repo model.Repository, tokens TokenIssuer, hasher PasswordHasher) *AuthService {
	dummy, err := hasher.Hash("emotioncolor-dummy-password")
	if err != nil {
		dummy = auth.HashPassword("emotioncolor-dummy-password")
	}
	return &AuthService{
		repo:        repo,
		tokens:      tokens,
		hasher:      hasher,
		dummyDigest: dummy,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// Verify 校验邮箱与密码
//
// Fails with auth.ErrUserNotFound or auth.ErrBadCredential; any other error
// is a storage failure.
func (s *AuthService) Verify(ctx context.Context, email, password string) (*entity.DbUser, error) {
	email = NormalizeEmail(email)
	if email == "" {
		_ = auth.VerifyPassword(s.dummyDigest, password)
		return nil, auth.ErrUserNotFound
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = auth.VerifyPassword(s.dummyDigest, password)
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrBadCredential) {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("stored password hash unusable")
		}
		return nil, auth.ErrBadCredential
	}
	return user, nil
}

// Login 登录并签发会话 token
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}

	role, err := s.repo.GetUserRole(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrRoleLookupFailed
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}
	if strings.TrimSpace(role) == "" {
		return nil, auth.ErrRoleLookupFailed
	}

	token, expiresAt, err := s.tokens.GenerateToken(auth.Identity{UserID: user.ID, Email: user.Email, Role: role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      role,
	}, nil
}

// Register 注册新用户，角色固定为 user
func (s *AuthService) Register(ctx context.Context, req entity.AuthRegisterRequest) (*entity.DbUser, error) {
	email := NormalizeEmail(req.Email)
	question := strings.TrimSpace(req.SecurityQuestion)
	answer := normalizeAnswer(req.SecurityAnswer)
	if email == "" || req.Password == "" || question == "" || answer == "" {
		return nil, ErrInvalidInput
	}

	_, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	answerHash, err := s.hasher.Hash(answer)
	if err != nil {
		return nil, fmt.Errorf("hash answer: %w", err)
	}

	user := &entity.DbUser{Email: email, PasswordHash: passwordHash}
	record := &entity.DbSecurityQuestion{Question: question, AnswerHash: answerHash}
	if err := s.repo.RegisterUser(ctx, user, entity.UserRoleUser, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	return user, nil
}

// GetSecurityQuestion 返回邮箱对应账户的安全问题
func (s *AuthService) GetSecurityQuestion(ctx context.Context, email string) (string, error) {
	record, err := s.loadQuestion(ctx, email)
	if err != nil {
		return "", err
	}
	return record.Question, nil
}

// VerifySecurityAnswer 校验安全问题答案，大小写与首尾空白不敏感
func (s *AuthService) VerifySecurityAnswer(ctx context.Context, email, answer string) error {
	record, err := s.loadQuestion(ctx, email)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(record.AnswerHash, normalizeAnswer(answer)); err != nil {
		return ErrBadAnswer
	}
	return nil
}

// ResetPassword 在答案正确时重置密码
func (s *AuthService) ResetPassword(ctx context.Context, email, answer, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}
	if err := s.VerifySecurityAnswer(ctx, email, answer); err != nil {
		return err
	}

	user, err := s.repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{PasswordHash: &digest}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *AuthService) loadQuestion(ctx context.Context, email string) (*entity.DbSecurityQuestion, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, auth.ErrUserNotFound
	}
	record, err := s.repo.GetSecurityQuestionByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup security question: %w", err)
	}
	return record, nil
}
