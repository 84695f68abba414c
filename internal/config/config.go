package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Auth struct {
		// Login endpoint of the external auth backend (Node service).
		BaseURL string `yaml:"base_url"`
		// Env var holding the shared HS256 secret; keyring is checked first.
		JWTSecretEnv string `yaml:"jwt_secret_env"`
		AdminEmail   string `yaml:"admin_email"`
	} `yaml:"auth"`

	Marketplace struct {
		BaseURL   string `yaml:"base_url"`
		TokenEnv  string `yaml:"token_env"`
		UserAgent string `yaml:"user_agent"`

		Scan struct {
			TargetCount int `yaml:"target_count"`
			MaxAttempts int `yaml:"max_attempts"`
			DelayMs     int `yaml:"delay_ms"`
		} `yaml:"scan"`
	} `yaml:"marketplace"`

	Gemini struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		KeyEnv  string `yaml:"key_env"`
	} `yaml:"gemini"`

	Retention struct {
		BidDays int `yaml:"bid_days"`
	} `yaml:"retention"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default is the built-in configuration used when no config file exists yet.
// EnsureUserConfig persists it into the data dir on first start.
func Default() Config {
	var cfg Config
	cfg.App.Port = 5000
	cfg.Auth.JWTSecretEnv = "JWT_SECRET"
	cfg.Auth.AdminEmail = "admin"
	cfg.Marketplace.BaseURL = "https://www.freelancer.com/api"
	cfg.Marketplace.TokenEnv = "PROD_TOKEN"
	cfg.Marketplace.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
	cfg.Marketplace.Scan.TargetCount = 20
	cfg.Marketplace.Scan.MaxAttempts = 50
	cfg.Marketplace.Scan.DelayMs = 300
	cfg.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	cfg.Gemini.Model = "gemini-2.5-flash-preview-05-20"
	cfg.Gemini.KeyEnv = "GEMINI_API_KEY"
	cfg.Retention.BidDays = 31
	return cfg
}
