package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minerva-id/SANCTUARY/dilithium"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSignerConfig(t *testing.T) {
	path := writeTempFile(t, "sanctuary.yml", `
config:
  listen_addr: "0.0.0.0:9000"
  fixture_db_dir: "/var/lib/sanctuary/fixtures"
  secret_key_path: "/etc/sanctuary/owner.key"
  log_file: "/var/log/sanctuary.log"
`)

	cfg, err := LoadSignerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/sanctuary/fixtures", cfg.FixtureDBDir)
	assert.Equal(t, "/etc/sanctuary/owner.key", cfg.SecretKeyPath)
	assert.Equal(t, "/var/log/sanctuary.log", cfg.LogFile)
}

func TestLoadSignerConfigDefaults(t *testing.T) {
	path := writeTempFile(t, "sanctuary.yml", "config: {}\n")

	cfg, err := LoadSignerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultFixtureDBDir, cfg.FixtureDBDir)
}

func TestLoadSignerConfigMissingFile(t *testing.T) {
	_, err := LoadSignerConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadSecretKey(t *testing.T) {
	key := make([]byte, dilithium.SecretKeySize)
	for i := range key {
		key[i] = byte(i)
	}
	// Trailing newline must be tolerated, editors add one.
	path := writeTempFile(t, "owner.key", hex.EncodeToString(key)+"\n")

	got, err := LoadSecretKey(path)
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestLoadSecretKeyWrongSize(t *testing.T) {
	path := writeTempFile(t, "owner.key", hex.EncodeToString(make([]byte, 64)))

	_, err := LoadSecretKey(path)
	assert.ErrorIs(t, err, dilithium.ErrInvalidSecretKeySize)
}

func TestLoadSecretKeyInvalidHex(t *testing.T) {
	path := writeTempFile(t, "owner.key", "not-hex-at-all")

	_, err := LoadSecretKey(path)
	assert.Error(t, err)
}

func TestLoadRPCLimitsConfig(t *testing.T) {
	path := writeTempFile(t, "rpc_limits.ini", `
[rpc_limits]
max_requests = 50
window_ms = 2000
cleanup_interval_s = 120
`)

	cfg, err := LoadRPCLimitsConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxRequests)
	assert.Equal(t, 2000, cfg.WindowMs)
	assert.Equal(t, 120, cfg.CleanupInterval)
}
