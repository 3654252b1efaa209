// Package config loads the srpkit CLI configuration from a YAML file,
// environment variables and flags.
package config

import (
	"crypto"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fzdarsky/srpkit/pkg/srp"
)

const (
	defaultGroupBits = 2048
	defaultHash      = "sha256"
	defaultVariant   = "nimbus"
	defaultUsername  = "srpkit"

	configFileName = "config.yaml"
	envGroupBits   = "SRPKIT_GROUP_BITS"
	envHash        = "SRPKIT_HASH"
	envVariant     = "SRPKIT_VARIANT"
	envUsername    = "SRPKIT_USERNAME"
)

// Config holds the exchange parameters selected for the srpkit CLI.
type Config struct {
	GroupBits int    `yaml:"group_bits"`
	Hash      string `yaml:"hash"`
	Variant   string `yaml:"variant"`
	Username  string `yaml:"username"`
}

// Load loads configuration from file and environment, and applies defaults.
// Precedence order (highest to lowest): environment, config file, defaults.
// Command-line flags are applied by the caller after Load().
func Load() (*Config, error) {
	cfg := &Config{
		GroupBits: defaultGroupBits,
		Hash:      defaultHash,
		Variant:   defaultVariant,
		Username:  defaultUsername,
	}

	if err := cfg.loadFromFile(); err != nil {
		// The config file is optional.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile() error {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return os.ErrNotExist
	}
	configPath := filepath.Join(configDir, "srpkit", configFileName)

	data, err := os.ReadFile(configPath) // #nosec G304 - path is the user config directory
	if err != nil {
		return err
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if fileConfig.GroupBits != 0 {
		c.GroupBits = fileConfig.GroupBits
	}
	if fileConfig.Hash != "" {
		c.Hash = fileConfig.Hash
	}
	if fileConfig.Variant != "" {
		c.Variant = fileConfig.Variant
	}
	if fileConfig.Username != "" {
		c.Username = fileConfig.Username
	}
	return nil
}

func (c *Config) loadFromEnv() {
	if bits := os.Getenv(envGroupBits); bits != "" {
		if n, err := strconv.Atoi(bits); err == nil {
			c.GroupBits = n
		}
	}
	if hash := os.Getenv(envHash); hash != "" {
		c.Hash = hash
	}
	if variant := os.Getenv(envVariant); variant != "" {
		c.Variant = variant
	}
	if username := os.Getenv(envUsername); username != "" {
		c.Username = username
	}
}

// ApplyFlags applies command-line flag values, the highest priority layer.
func (c *Config) ApplyFlags(groupBits int, hash, variant, username string) {
	if groupBits != 0 {
		c.GroupBits = groupBits
	}
	if hash != "" {
		c.Hash = hash
	}
	if variant != "" {
		c.Variant = variant
	}
	if username != "" {
		c.Username = username
	}
}

// Validate checks that the configured values name a known group, hash and
// variant.
func (c *Config) Validate() error {
	if _, err := srp.GetGroup(c.GroupBits); err != nil {
		return fmt.Errorf("invalid group_bits %d: %w", c.GroupBits, err)
	}
	if _, err := ParseHash(c.Hash); err != nil {
		return err
	}
	if _, err := srp.ParseVariant(c.Variant); err != nil {
		return err
	}
	if c.Username == "" {
		return fmt.Errorf("username must not be empty")
	}
	return nil
}

// Protocol resolves the configuration into an srp.Config.
func (c *Config) Protocol() (srp.Config, error) {
	group, err := srp.GetGroup(c.GroupBits)
	if err != nil {
		return srp.Config{}, err
	}
	hash, err := ParseHash(c.Hash)
	if err != nil {
		return srp.Config{}, err
	}
	variant, err := srp.ParseVariant(c.Variant)
	if err != nil {
		return srp.Config{}, err
	}
	return srp.Config{Group: group, Hash: hash, Variant: variant}, nil
}

// ParseHash maps a configuration hash name to a crypto.Hash.
func ParseHash(name string) (crypto.Hash, error) {
	switch strings.ToLower(name) {
	case "sha1", "sha-1":
		return crypto.SHA1, nil
	case "sha256", "sha-256":
		return crypto.SHA256, nil
	case "sha512", "sha-512":
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("unknown hash %q (supported: sha1, sha256, sha512)", name)
	}
}
