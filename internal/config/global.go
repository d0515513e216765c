package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/vf/config.yml.
type GlobalConfig struct {
	RepoPath string `yaml:"repo_path,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "vf"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// RepoEnvVar overrides repo_path when set.
	RepoEnvVar = "VF_REPO"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/vf/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.RepoPath != "" {
		cfg.RepoPath = ExpandPath(cfg.RepoPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetRepoPath returns the default repository: VF_REPO if set, otherwise
// repo_path from the global config, otherwise "".
func GetRepoPath() string {
	if p := os.Getenv(RepoEnvVar); p != "" {
		return ExpandPath(p)
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.RepoPath
}

// HelpfulConfigMessage returns a helpful message when no repository is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No visitflow repository found.

Run 'vf init' to create one here, or point vf at an existing repository:
  export %s=/path/to/repo

or create %s:
  mkdir -p %s
  echo 'repo_path: /path/to/repo' > %s`,
		RepoEnvVar,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
