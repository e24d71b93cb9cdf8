package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// UserConfigFile is the name of the user-level config file
const UserConfigFile = "config.yaml"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *zap.SugaredLogger

	// UserConfigPath is the user-level config file; empty disables that layer.
	UserConfigPath string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *zap.SugaredLogger) *Loader {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loader{
		logger:         logger,
		UserConfigPath: filepath.Join(Dir(), UserConfigFile),
	}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config ($XDG_CONFIG_HOME/daygrid/config.yaml); optional, but it must parse
// 3. The explicit file, when path is not empty; it must exist
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if l.UserConfigPath != "" {
		userConfig, err := readLayer(l.UserConfigPath)
		switch {
		case err == nil:
			l.logger.Debugw("loaded user config", "path", l.UserConfigPath)
			config.Merge(userConfig)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("user config: %w", err)
		}
	}

	if path != "" {
		explicit, err := readLayer(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debugw("loaded config", "path", path)
		config.Merge(explicit)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't
// exist and returns its path.
func (l *Loader) EnsureUserConfig() (string, error) {
	if _, err := os.Stat(l.UserConfigPath); err == nil {
		return l.UserConfigPath, nil
	}

	if err := DefaultConfig().SaveToFile(l.UserConfigPath); err != nil {
		return "", err
	}

	l.logger.Infow("created default user config", "path", l.UserConfigPath)
	return l.UserConfigPath, nil
}
