package persistence

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"somweb-bridge/internal/domain/model"
)

// Environment overrides, applied on top of the config file.
const (
	EnvUDI      = "SOMWEB_UDI"
	EnvUsername = "SOMWEB_USERNAME"
	EnvPassword = "SOMWEB_PASSWORD"
	EnvBroker   = "MQTT_BROKER"
)

type YAMLConfigRepository struct {
	filepath string
	mu       sync.RWMutex
}

func NewYAMLConfigRepository(filepath string) *YAMLConfigRepository {
	return &YAMLConfigRepository{filepath: filepath}
}

// Get loads, overrides, defaults and validates the configuration.
// A missing file is not an error as long as the env vars carry the
// required fields.
func (r *YAMLConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cfg model.Config
	data, err := os.ReadFile(r.filepath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", r.filepath, err)
		}
	case os.IsNotExist(err):
		// fall through to env vars
	default:
		return nil, err
	}

	applyEnv(&cfg)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *YAMLConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	// 0600: the file holds the portal credentials.
	return os.WriteFile(r.filepath, data, 0600)
}

func applyEnv(cfg *model.Config) {
	if v := os.Getenv(EnvUDI); v != "" {
		cfg.Somweb.UDI = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		cfg.Somweb.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		cfg.Somweb.Password = v
	}
	if v := os.Getenv(EnvBroker); v != "" {
		cfg.MQTT.BrokerURL = v
	}
}
