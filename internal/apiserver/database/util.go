package database

import (
	"context"
	"errors"

	"github.com/secugard/secugard/internal/common/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitSuperAdmin ensures the bootstrap administrator account exists. It is
// a no-op when the account is already present or the config is empty.
func InitSuperAdmin(ctx context.Context, store Store, cfg *config.SuperAdminConfig, logger *zap.Logger) error {
	if cfg.Username == "" || cfg.Password == "" {
		logger.Warn("super admin not configured, skipping bootstrap")
		return nil
	}

	_, err := store.GetUserByUsername(ctx, cfg.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &User{
		Username: cfg.Username,
		Password: string(hashed),
		Role:     RoleAdmin,
		IsActive: true,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return err
	}
	logger.Info("super admin created", zap.String("username", cfg.Username))
	return nil
}
