package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/minerva-id/SANCTUARY/dilithium"
	"github.com/minerva-id/SANCTUARY/logx"
)

const (
	DefaultListenAddr   = "localhost:8546"
	DefaultFixtureDBDir = "./data/fixtures"
)

// LoadSignerConfig reads and parses the sanctuary.yml file
func LoadSignerConfig(path string) (*SignerConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		logx.Error("CONFIG", "Failed to open config file:", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "Failed to decode YAML:", err)
		return nil, err
	}

	cfg := cfgFile.Config
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.FixtureDBDir == "" {
		cfg.FixtureDBDir = DefaultFixtureDBDir
	}
	logx.Info("CONFIG", "Loaded signer config: listen=", cfg.ListenAddr, " fixtures=", cfg.FixtureDBDir)
	return &cfg, nil
}

// LoadSecretKey loads a packed ML-DSA-44 secret key from a file (expects
// lowercase hex). The loaded bytes are size-checked here; structural
// validity is re-checked by the signer on every use.
func LoadSecretKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("secret key file is not valid hex: %w", err)
	}
	if len(key) != dilithium.SecretKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d",
			dilithium.ErrInvalidSecretKeySize, dilithium.SecretKeySize, len(key))
	}
	return key, nil
}

// LoadRPCLimitsConfig reads RPC rate-limit tuning from an .ini file
func LoadRPCLimitsConfig(path string) (*RPCLimitsConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	limitsSection := cfg.Section("rpc_limits")
	limitsCfg := &RPCLimitsConfig{}
	err = limitsSection.MapTo(limitsCfg)
	if err != nil {
		return nil, err
	}
	return limitsCfg, nil
}
