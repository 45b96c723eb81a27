package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultAuthURL    = "https://da84s1s15g.execute-api.af-south-1.amazonaws.com"
	DefaultCatalogURL = "https://xf9zlapr5e.execute-api.af-south-1.amazonaws.com/smartphones"
)

// Config holds runtime settings for the CompareHub CLI.
type Config struct {
	AuthURL    string `env:"AUTH_URL" validate:"required,url"`
	CatalogURL string `env:"CATALOG_URL" validate:"required,url"`
	Category   string `env:"CATEGORY"`
	PageSize   int    `env:"PAGE_SIZE" validate:"gte=1"`

	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL" validate:"gt=0"`

	DBPath     string `env:"DB_PATH" validate:"required"`
	ExportsDir string `env:"EXPORTS_DIR" validate:"required"`

	LogFormat string `env:"LOG_FORMAT" validate:"oneof=text json zap"`
	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	Challenge Challenge `envPrefix:"CHALLENGE_"`
	Share     Share     `envPrefix:"SHARE_"`
	Signing   Signing   `envPrefix:"SIGV4_"`
}

// Challenge configures where anti-abuse tokens come from.
type Challenge struct {
	Mode         string        `env:"MODE" validate:"oneof=browser prompt static none"`
	SiteKey      string        `env:"SITE_KEY"`
	PageURL      string        `env:"PAGE_URL"`
	Token        string        `env:"TOKEN"`
	Passive      bool          `env:"PASSIVE"`
	Headless     bool          `env:"HEADLESS"`
	BrowserBin   string        `env:"BROWSER_BIN"`
	ControlURL   string        `env:"CONTROL_URL"`
	PollInterval time.Duration `env:"POLL_INTERVAL" validate:"gt=0"`
	Timeout      time.Duration `env:"TIMEOUT" validate:"gt=0"`
}

// Share selects where exported reports go.
type Share struct {
	Target      string `env:"TARGET" validate:"oneof=file s3"`
	S3Bucket    string `env:"S3_BUCKET" validate:"required_if=Target s3"`
	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

// Signing enables SigV4 signing of API calls for IAM-protected stages.
// Credentials come from the default AWS chain.
type Signing struct {
	Enabled bool   `env:"ENABLED"`
	Region  string `env:"REGION"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthURL = DefaultAuthURL
	c.CatalogURL = DefaultCatalogURL
	c.Category = "smartphones"
	c.PageSize = 12
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DBPath = "comparehub.db"
	c.ExportsDir = "exports"
	c.LogFormat = "text"
	c.LogLevel = "warn"

	c.Challenge = Challenge{
		Mode:         "prompt",
		Headless:     true,
		PollInterval: 250 * time.Millisecond,
		Timeout:      30 * time.Second,
	}
	c.Share = Share{Target: "file", S3Region: "af-south-1"}
	c.Signing = Signing{Region: "af-south-1"}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays .env and
// environment values, JSON (if present) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
