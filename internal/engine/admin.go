package engine

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"securechat/internal/models"
)

// UpdateRetention sets the message retention window. Admin-only; hours must
// be within [1, 8760].
func (e *Engine) UpdateRetention(hours int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.requireAdminConfigLocked()
	if err != nil {
		return err
	}
	if hours < models.MinRetentionHours || hours > models.MaxRetentionHours {
		return validationError("retention hours must be between 1 and 8760")
	}
	cfg.DefaultMessageRetentionHours = hours
	return e.config.Save(cfg)
}

// UpdateAdminPassword replaces the admin password. Admin-only; minimum six
// characters.
func (e *Engine) UpdateAdminPassword(newPassword string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, err := e.requireAdminConfigLocked()
	if err != nil {
		return err
	}
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < 6 {
		return validationError("admin password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	cfg.AdminPasswordHash = string(hash)
	return e.config.Save(cfg)
}

// RetentionHours returns the configured retention window, falling back to
// the default before admin setup has run.
func (e *Engine) RetentionHours() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg, ok, err := e.config.Get()
	if err != nil {
		return 0, err
	}
	if !ok {
		cfg = models.DefaultAdminConfig()
	}
	return cfg.DefaultMessageRetentionHours, nil
}

func (e *Engine) requireAdminConfigLocked() (models.AdminConfig, error) {
	sess, err := e.currentSessionLocked()
	if err != nil {
		return models.AdminConfig{}, err
	}
	if sess.Tier != models.TierAdmin {
		return models.AdminConfig{}, ErrNotAuthorized
	}
	cfg, ok, err := e.config.Get()
	if err != nil {
		return models.AdminConfig{}, err
	}
	if !ok {
		return models.AdminConfig{}, ErrAdminSetupRequired
	}
	return cfg, nil
}
