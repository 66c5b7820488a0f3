package model

import (
	"context"
	"emotioncolor/internal/entity"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PasswordHasher hashes seed passwords with the configured scheme.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type userSeed struct {
	Email    string
	Password string
	Role     string
	Question string
	Answer   string
}

func defaultUserSeeds() []userSeed {
	return []userSeed{
		{Email: "admin@admin.com", Password: "admin", Role: entity.UserRoleAdmin, Question: "What is your role?", Answer: "admin"},
		{Email: "user@user.com", Password: "user", Role: entity.UserRoleUser, Question: "What is your role?", Answer: "user"},
	}
}

// SeedDefaultUsers 创建默认的 admin / user 账户，已存在的账户只补齐角色
func SeedDefaultUsers(ctx context.Context, repo Repository, hasher PasswordHasher) (int, error) {
	if repo == nil || hasher == nil {
		return 0, nil
	}

	created := 0
	for _, seed := range defaultUserSeeds() {
		existing, err := repo.GetUserByEmail(ctx, seed.Email)
		switch {
		case err == nil:
			if err := ensureSeedRole(ctx, repo, existing.ID, seed.Role); err != nil {
				return created, err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := createSeedUser(ctx, repo, hasher, seed); err != nil {
				return created, err
			}
			created++
		default:
			return created, err
		}
	}
	return created, nil
}

func ensureSeedRole(ctx context.Context, repo Repository, userID uint, role string) error {
	_, err := repo.GetUserRole(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	logrus.WithField("user_id", userID).Info("assigning missing role to seeded user")
	return repo.AssignUserRole(ctx, userID, role)
}

func createSeedUser(ctx context.Context, repo Repository, hasher PasswordHasher, seed userSeed) error {
	passwordHash, err := hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	answerHash, err := hasher.Hash(seed.Answer)
	if err != nil {
		return fmt.Errorf("hash seed answer: %w", err)
	}

	user := &entity.DbUser{Email: seed.Email, PasswordHash: passwordHash}
	question := &entity.DbSecurityQuestion{Question: seed.Question, AnswerHash: answerHash}
	if err := repo.RegisterUser(ctx, user, seed.Role, question); err != nil {
		return fmt.Errorf("seed user %s: %w", seed.Email, err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": seed.Email, "role": seed.Role}).Info("seeded default user")
	return nil
}
