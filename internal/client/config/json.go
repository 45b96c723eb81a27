package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/comparehub/internal/flagx"
	"github.com/dmitrijs2005/comparehub/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty values
// leave the running Config untouched.
type JsonConfig struct {
	AuthURL             string         `json:"auth_url"`
	CatalogURL          string         `json:"catalog_url"`
	Category            string         `json:"category"`
	PageSize            int            `json:"page_size"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DBPath              string         `json:"db_path"`
	ExportsDir          string         `json:"exports_dir"`
	LogFormat           string         `json:"log_format"`
	LogLevel            string         `json:"log_level"`

	Challenge struct {
		Mode         string         `json:"mode"`
		SiteKey      string         `json:"site_key"`
		PageURL      string         `json:"page_url"`
		Token        string         `json:"token"`
		Passive      *bool          `json:"passive"`
		Headless     *bool          `json:"headless"`
		BrowserBin   string         `json:"browser_bin"`
		ControlURL   string         `json:"control_url"`
		PollInterval timex.Duration `json:"poll_interval"`
		Timeout      timex.Duration `json:"timeout"`
	} `json:"challenge"`

	Share struct {
		Target      string `json:"target"`
		S3Bucket    string `json:"s3_bucket"`
		S3Region    string `json:"s3_region"`
		S3Endpoint  string `json:"s3_endpoint"`
		S3AccessKey string `json:"s3_access_key"`
		S3SecretKey string `json:"s3_secret_key"`
	} `json:"share"`

	Signing struct {
		Enabled *bool  `json:"enabled"`
		Region  string `json:"region"`
	} `json:"signing"`
}

// parseJSON overlays cfg with the file named by -c / -config or
// $COMPAREHUB_CONFIG. No file means no changes.
func parseJSON(cfg *Config) error {
	path := flagx.ConfigFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.AuthURL, jc.AuthURL)
	setString(&cfg.CatalogURL, jc.CatalogURL)
	setString(&cfg.Category, jc.Category)
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.ExportsDir, jc.ExportsDir)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)

	ch := &cfg.Challenge
	setString(&ch.Mode, jc.Challenge.Mode)
	setString(&ch.SiteKey, jc.Challenge.SiteKey)
	setString(&ch.PageURL, jc.Challenge.PageURL)
	setString(&ch.Token, jc.Challenge.Token)
	setBool(&ch.Passive, jc.Challenge.Passive)
	setBool(&ch.Headless, jc.Challenge.Headless)
	setString(&ch.BrowserBin, jc.Challenge.BrowserBin)
	setString(&ch.ControlURL, jc.Challenge.ControlURL)
	setDuration(&ch.PollInterval, jc.Challenge.PollInterval)
	setDuration(&ch.Timeout, jc.Challenge.Timeout)

	sh := &cfg.Share
	setString(&sh.Target, jc.Share.Target)
	setString(&sh.S3Bucket, jc.Share.S3Bucket)
	setString(&sh.S3Region, jc.Share.S3Region)
	setString(&sh.S3Endpoint, jc.Share.S3Endpoint)
	setString(&sh.S3AccessKey, jc.Share.S3AccessKey)
	setString(&sh.S3SecretKey, jc.Share.S3SecretKey)

	setBool(&cfg.Signing.Enabled, jc.Signing.Enabled)
	setString(&cfg.Signing.Region, jc.Signing.Region)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
