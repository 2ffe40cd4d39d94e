package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/pkg/logger"

	"gorm.io/gorm"
)

// SeedAdmin creates the default admin account unless a user with that email exists.
func SeedAdmin(ctx context.Context, userRepo repository.UserRepository, email, username, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	admin := &model.User{
		Email:    email,
		Username: username,
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created: %s (%s)", email, username)
	return nil
}
