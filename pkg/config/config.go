// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads and hot-reloads the YAML configuration for the
// record-set change handler daemon: which DNS connector backend to use
// and its credentials, the zones it is authoritative for, the
// persistence DSN, and the verifier's retry tuning.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"recordchange/pkg/log"
	"recordchange/pkg/util"
)

// ConfigFile is the top-level shape of the YAML configuration file.
type ConfigFile struct {
	General     GeneralConfig         `yaml:"general"`
	Connector   ConnectorConfig       `yaml:"connector"`
	Zones       map[string]ZoneConfig `yaml:"zones"`
	Persistence PersistenceConfig     `yaml:"persistence"`
	Verifier    VerifierConfig        `yaml:"verifier"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel      string `yaml:"log_level"`
	LogTimestamps bool   `yaml:"log_timestamps"`
	DryRun        bool   `yaml:"dry_run"`
}

// ConnectorConfig selects and configures the DnsConnector backend
// (e.g. "rfc2136" or "cloudflare"). Options is passed to the connector's
// Factory after any "file://" or "env://" reference in a secret option
// (see secretOptionFields) has been resolved.
type ConnectorConfig struct {
	Type    string            `yaml:"type"`
	Options map[string]string `yaml:",inline"`
}

// ZoneConfig names a zone this daemon is authoritative for.
type ZoneConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// PersistenceConfig selects the repository backend's storage DSN.
type PersistenceConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// VerifierConfig overrides the handler's default retry/backoff budget.
type VerifierConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	BackoffMS   int `yaml:"backoff_ms"`
}

var (
	globalMu     sync.RWMutex
	globalConfig ConfigFile
)

// GetGlobalConfig returns a copy of the current configuration.
func GetGlobalConfig() ConfigFile {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// setGlobalConfig installs cfg as the current configuration.
func setGlobalConfig(cfg ConfigFile) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// LoadConfigFile reads and parses the YAML configuration at path,
// resolving file: indirection in connector options and applying
// environment-variable and default-value overrides, then installs it
// as the global configuration.
func LoadConfigFile(path string) (ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ConfigFile{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	resolveConnectorSecrets(&cfg)
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	log.Debug("[config] connector options: %v", util.MaskSensitiveOptions(cfg.Connector.Options))

	setGlobalConfig(cfg)
	return cfg, nil
}

// GetOption returns a connector option, resolving a "file://" or
// "env://" indirection via util.ReadSecretValue.
func GetOption(options map[string]string, key string) string {
	value, ok := options[key]
	if !ok || value == "" {
		return ""
	}
	return util.ReadSecretValue(value)
}

// secretOptionFields lists the connector option keys that may hold a
// "file://" or "env://" reference instead of a literal value.
var secretOptionFields = []string{"api_token", "api_key", "api_email", "tsig_secret"}

func resolveConnectorSecrets(cfg *ConfigFile) {
	if cfg.Connector.Options == nil {
		return
	}
	for _, field := range secretOptionFields {
		if value, ok := cfg.Connector.Options[field]; ok {
			cfg.Connector.Options[field] = util.ReadSecretValue(value)
		}
	}
}

func applyEnvOverrides(cfg *ConfigFile) {
	cfg.General.LogLevel = EnvToString("LOG_LEVEL", cfg.General.LogLevel)
	cfg.Connector.Type = EnvToString("CONNECTOR_TYPE", cfg.Connector.Type)
	cfg.Persistence.DSN = EnvToString("PERSISTENCE_DSN", cfg.Persistence.DSN)
	cfg.General.DryRun = EnvToBool("DRY_RUN", cfg.General.DryRun)
	cfg.Verifier.MaxAttempts = EnvToInt("VERIFIER_MAX_ATTEMPTS", cfg.Verifier.MaxAttempts)
	cfg.Verifier.BackoffMS = EnvToInt("VERIFIER_BACKOFF_MS", cfg.Verifier.BackoffMS)
}

func applyDefaults(cfg *ConfigFile) {
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
	if cfg.Persistence.Driver == "" {
		cfg.Persistence.Driver = "sqlite"
	}
	if cfg.Verifier.MaxAttempts <= 0 {
		cfg.Verifier.MaxAttempts = 12
	}
	if cfg.Verifier.BackoffMS <= 0 {
		cfg.Verifier.BackoffMS = 100
	}
}
