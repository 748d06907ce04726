package repositories

import (
	"encoding/json"
	"fmt"

	"securechat/internal/models"
	"securechat/internal/storage"
)

// ConfigRepository abstracts AdminConfig persistence. The config is absent
// until the one-time admin setup completes.
type ConfigRepository interface {
	Get() (models.AdminConfig, bool, error)
	Save(cfg models.AdminConfig) error
}

// ConfigRepo is a key-value backed ConfigRepository.
type ConfigRepo struct {
	store storage.Store
}

// NewConfigRepo constructs a ConfigRepo.
func NewConfigRepo(store storage.Store) *ConfigRepo {
	return &ConfigRepo{store: store}
}

// Get loads the admin config; ok is false when setup has not run yet.
func (r *ConfigRepo) Get() (models.AdminConfig, bool, error) {
	data, ok, err := r.store.Get(storage.KeyAdminConfig)
	if err != nil || !ok {
		return models.AdminConfig{}, false, err
	}
	var cfg models.AdminConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return models.AdminConfig{}, false, fmt.Errorf("decode admin config: %w", err)
	}
	return cfg, true, nil
}

// Save persists the admin config.
func (r *ConfigRepo) Save(cfg models.AdminConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode admin config: %w", err)
	}
	return r.store.Set(storage.KeyAdminConfig, data)
}

var _ ConfigRepository = (*ConfigRepo)(nil)
