package handlers

import (
	"fmt"

	"github.com/imamik/hforge/internal/config"
	"github.com/imamik/hforge/internal/util/keygen"
)

// loadConfig loads the configuration at path, or the nearest hforge.yaml
// when path is empty. The SSH key path comes back with "~" expanded.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	keyPath, err := keygen.ExpandHome(cfg.SSH.PrivateKey)
	if err != nil {
		return nil, err
	}
	cfg.SSH.PrivateKey = keyPath

	return cfg, nil
}
