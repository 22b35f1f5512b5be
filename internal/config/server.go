package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultMaxResumeSize is the largest accepted resume submission in bytes.
const DefaultMaxResumeSize = 50000

// ServerConfig configures the development API server.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	DatabaseURL    string        `mapstructure:"database_url"` // empty selects in-memory storage
	RedisURL       string        `mapstructure:"redis_url"`    // empty selects in-memory sessions
	AdminEmail     string        `mapstructure:"admin_email"`  // seeded admin account
	AdminPassword  string        `mapstructure:"admin_password"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxResumeSize  int64         `mapstructure:"max_resume_size"`
	LoginRate      float64       `mapstructure:"login_rate"`  // login attempts per second per client
	LoginBurst     int           `mapstructure:"login_burst"` // burst of login attempts per client
	PDFTimeout     time.Duration `mapstructure:"pdf_timeout"`
	ChromePath     string        `mapstructure:"chrome_path"` // empty lets chromedp find a browser
}

var serverEnv = map[string]string{
	"port":            "PORT",
	"database_url":    "DATABASE_URL",
	"redis_url":       "REDIS_URL",
	"admin_email":     "ADMIN_EMAIL",
	"admin_password":  "ADMIN_PASSWORD",
	"allowed_origins": "ALLOWED_ORIGINS",
	"max_resume_size": "MAX_RESUME_SIZE",
	"login_rate":      "LOGIN_RATE",
	"login_burst":     "LOGIN_BURST",
	"pdf_timeout":     "PDF_TIMEOUT",
	"chrome_path":     "CHROME_PATH",
}

// LoadServer reads the server configuration the same way Load reads the client's.
func LoadServer(path string) (*ServerConfig, error) {
	v := viper.New()
	v.SetDefault("port", 5000)
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("admin_email", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("max_resume_size", DefaultMaxResumeSize)
	v.SetDefault("login_rate", 0.2)
	v.SetDefault("login_burst", 5)
	v.SetDefault("pdf_timeout", 30*time.Second)
	v.SetDefault("chrome_path", "")

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}
	if err := bindEnv(v, serverEnv); err != nil {
		return nil, err
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode server config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.MaxResumeSize < 1 {
		return fmt.Errorf("config error: 'max_resume_size' must be positive")
	}
	if c.LoginRate <= 0 || c.LoginBurst < 1 {
		return fmt.Errorf("config error: 'login_rate' and 'login_burst' must be positive")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("config error: 'admin_email' and 'admin_password' must be set together")
	}
	if c.AdminPassword != "" && len(c.AdminPassword) < MinPasswordLength {
		return fmt.Errorf("config error: 'admin_password' must be at least %d characters", MinPasswordLength)
	}
	return nil
}
