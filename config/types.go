package config

// SignerConfig holds the signer/verifier service configuration loaded
// from sanctuary.yml.
type SignerConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	FixtureDBDir  string `yaml:"fixture_db_dir"`
	SecretKeyPath string `yaml:"secret_key_path"`
	LogFile       string `yaml:"log_file"`
}

// ConfigFile is the top-level structure for sanctuary.yml
type ConfigFile struct {
	Config SignerConfig `yaml:"config"`
}

// RPCLimitsConfig holds rate-limit tuning for the verification RPC,
// loaded from an .ini file.
type RPCLimitsConfig struct {
	MaxRequests     int `ini:"max_requests"`
	WindowMs        int `ini:"window_ms"`
	CleanupInterval int `ini:"cleanup_interval_s"`
}
