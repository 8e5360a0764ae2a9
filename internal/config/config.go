// Package config loads server settings from defaults, an optional YAML file,
// a .env file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/daotreasury/internal/tally"
	"github.com/mmynk/daotreasury/internal/units"
)

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "dev-secret-change-me"

// Config holds all server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Governance GovernanceConfig `yaml:"governance"`
	Frontend   FrontendConfig   `yaml:"frontend"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	DBPath string `yaml:"db_path"`
}

type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	TokenTTL     string `yaml:"token_ttl"`
	ChallengeTTL string `yaml:"challenge_ttl"`
}

// GovernanceConfig mirrors tally.Policy plus the deployer account.
type GovernanceConfig struct {
	Deployer string `yaml:"deployer"`
	// StakeholderThreshold is in ether, e.g. "1" or "0.5".
	StakeholderThreshold string `yaml:"stakeholder_threshold"`
	VotingPeriod         string `yaml:"voting_period"`
	Quorum               uint64 `yaml:"quorum"`
	MajorityPercent      uint64 `yaml:"majority_percent"`
	PayoutTiming         string `yaml:"payout_timing"` // before-deadline, after-deadline, anytime
}

type FrontendConfig struct {
	// Update writes address.json and abi.json into Dir on startup.
	Update bool   `yaml:"update"`
	Dir    string `yaml:"dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:   8080,
			DBPath: "./data/treasury.db",
		},
		Auth: AuthConfig{
			JWTSecret:    DefaultJWTSecret,
			TokenTTL:     "24h",
			ChallengeTTL: "5m",
		},
		Governance: GovernanceConfig{
			// First Hardhat development account.
			Deployer:             "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
			StakeholderThreshold: "1",
			VotingPeriod:         "5m",
			Quorum:               1,
			MajorityPercent:      50,
			PayoutTiming:         string(tally.PayoutBeforeDeadline),
		},
		Frontend: FrontendConfig{
			Update: false,
			Dir:    "../frontend/constants",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. path may be empty; a missing file is not an
// error. Values from .env are loaded into the environment without overriding
// variables that are already set.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	setString("DB_PATH", &c.Server.DBPath)

	setString("JWT_SECRET", &c.Auth.JWTSecret)
	setString("TOKEN_TTL", &c.Auth.TokenTTL)
	setString("CHALLENGE_TTL", &c.Auth.ChallengeTTL)

	setString("DEPLOYER_ADDRESS", &c.Governance.Deployer)
	setString("STAKEHOLDER_THRESHOLD", &c.Governance.StakeholderThreshold)
	setString("VOTING_PERIOD", &c.Governance.VotingPeriod)
	setString("PAYOUT_TIMING", &c.Governance.PayoutTiming)
	for key, dst := range map[string]*uint64{
		"QUORUM":           &c.Governance.Quorum,
		"MAJORITY_PERCENT": &c.Governance.MajorityPercent,
	} {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, v, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("UPDATE_FRONTEND"); v != "" {
		update, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid UPDATE_FRONTEND %q: %w", v, err)
		}
		c.Frontend.Update = update
	}
	setString("FRONTEND_DIR", &c.Frontend.Dir)

	setString("LOG_LEVEL", &c.Logging.Level)
	setString("LOG_FORMAT", &c.Logging.Format)
	return nil
}

// Validate checks every field that later parsing depends on.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	if _, err := c.ChallengeTTL(); err != nil {
		return err
	}
	if _, err := c.Deployer(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// TokenTTL is how long session tokens stay valid.
func (c *Config) TokenTTL() (time.Duration, error) {
	return parsePositiveDuration("token_ttl", c.Auth.TokenTTL)
}

// ChallengeTTL is how long a login challenge can be answered.
func (c *Config) ChallengeTTL() (time.Duration, error) {
	return parsePositiveDuration("challenge_ttl", c.Auth.ChallengeTTL)
}

// Deployer returns the deployer account.
func (c *Config) Deployer() (common.Address, error) {
	if !common.IsHexAddress(c.Governance.Deployer) {
		return common.Address{}, fmt.Errorf("invalid deployer address %q", c.Governance.Deployer)
	}
	return common.HexToAddress(c.Governance.Deployer), nil
}

// Policy converts the governance section into a validated tally.Policy.
func (c *Config) Policy() (tally.Policy, error) {
	threshold, err := units.ParseEther(c.Governance.StakeholderThreshold)
	if err != nil {
		return tally.Policy{}, fmt.Errorf("invalid stakeholder_threshold: %w", err)
	}
	period, err := parsePositiveDuration("voting_period", c.Governance.VotingPeriod)
	if err != nil {
		return tally.Policy{}, err
	}

	p := tally.Policy{
		StakeholderThreshold: threshold,
		VotingPeriod:         period,
		Quorum:               c.Governance.Quorum,
		MajorityPercent:      c.Governance.MajorityPercent,
		PayoutTiming:         tally.PayoutTiming(strings.ToLower(c.Governance.PayoutTiming)),
	}
	if err := p.Validate(); err != nil {
		return tally.Policy{}, err
	}
	return p, nil
}

func parsePositiveDuration(name, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return d, nil
}
