// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Default values for optional settings.
const (
	DefaultPort     = 8080
	DefaultSMTPPort = 587
)

// Config holds the full application configuration. Values come from the
// environment (optionally seeded by a .env file) and may be supplemented by a
// JSON config file for non-secret settings such as the static target list.
type Config struct {
	// Model API
	GeminiAPIKey string `json:"-"` // GEMINI_API_KEY, never read from file

	// Scraper server (external collaborator). Empty means direct fetch.
	ScraperURL string `json:"scraper_url,omitempty"`

	// Storage
	DatabaseURL string `json:"-"` // DATABASE_URL

	// Portal
	Port        int    `json:"port,omitempty"`
	AppURL      string `json:"app_url,omitempty"` // public base URL for verification links
	AppPassword string `json:"-"`                 // APP_PASSWORD, admin login

	// Mail delivery
	SMTPHost     string `json:"smtp_host,omitempty"`
	SMTPPort     int    `json:"smtp_port,omitempty"`
	SMTPUsername string `json:"-"`
	SMTPPassword string `json:"-"`
	MailFrom     string `json:"mail_from,omitempty"`
	MailAdmin    string `json:"mail_admin,omitempty"` // always receives the daily brief

	// Slack delivery
	SlackBotToken  string `json:"-"`
	SlackChannelID string `json:"slack_channel_id,omitempty"`

	// Optional search-based research (disabled when unset)
	SearchAPIKey   string `json:"-"`
	SearchEngineCX string `json:"search_engine_cx,omitempty"`

	// Static fallback watchlist, used when no database is configured.
	Targets []string `json:"targets,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // headless browser fallback for SPA sites
	Verbose    bool `json:"verbose,omitempty"`
}

// FromEnv builds a Config from environment variables.
func FromEnv() *Config {
	cfg := &Config{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		ScraperURL:     os.Getenv("SCRAPER_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AppURL:         os.Getenv("APP_URL"),
		AppPassword:    os.Getenv("APP_PASSWORD"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		MailFrom:       os.Getenv("MAIL_FROM"),
		MailAdmin:      os.Getenv("MAIL_ADMIN"),
		SlackBotToken:  os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		SearchAPIKey:   os.Getenv("SEARCH_API_KEY"),
		SearchEngineCX: os.Getenv("SEARCH_ENGINE_CX"),
		Port:           DefaultPort,
		SMTPPort:       DefaultSMTPPort,
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.SMTPPort = p
		}
	}
	if targets := os.Getenv("WATCH_TARGETS"); targets != "" {
		for _, t := range strings.Split(targets, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.Targets = append(cfg.Targets, t)
			}
		}
	}

	return cfg
}

// LoadFile reads non-secret settings from a JSON config file.
// Secrets are deliberately excluded from the file format.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Merge fills empty fields of c from the file-based overlay. Environment
// values always win; the file only supplies what the environment left unset.
func (c *Config) Merge(file *Config) {
	if file == nil {
		return
	}
	if c.ScraperURL == "" {
		c.ScraperURL = file.ScraperURL
	}
	if c.AppURL == "" {
		c.AppURL = file.AppURL
	}
	if c.SMTPHost == "" {
		c.SMTPHost = file.SMTPHost
	}
	if file.SMTPPort != 0 && c.SMTPPort == DefaultSMTPPort {
		c.SMTPPort = file.SMTPPort
	}
	if c.MailFrom == "" {
		c.MailFrom = file.MailFrom
	}
	if c.MailAdmin == "" {
		c.MailAdmin = file.MailAdmin
	}
	if c.SlackChannelID == "" {
		c.SlackChannelID = file.SlackChannelID
	}
	if c.SearchEngineCX == "" {
		c.SearchEngineCX = file.SearchEngineCX
	}
	if file.Port != 0 && c.Port == DefaultPort {
		c.Port = file.Port
	}
	if len(c.Targets) == 0 {
		c.Targets = file.Targets
	}
	if file.UseBrowser {
		c.UseBrowser = true
	}
	if file.Verbose {
		c.Verbose = true
	}
}

// MailConfigured reports whether the mail channel is fully configured.
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != "" && c.MailFrom != ""
}

// SlackConfigured reports whether the Slack channel is fully configured.
func (c *Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

// SearchConfigured reports whether the research module can be enabled.
func (c *Config) SearchConfigured() bool {
	return c.SearchAPIKey != "" && c.SearchEngineCX != ""
}

// ValidateServe checks the configuration needed to run the portal.
// All missing keys are reported in a single error so the operator can fix
// startup in one pass rather than discovering failures inside handlers.
func (c *Config) ValidateServe() error {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.AppPassword == "" {
		missing = append(missing, "APP_PASSWORD")
	}
	if os.Getenv("JWT_SECRET") == "" {
		missing = append(missing, "JWT_SECRET")
	}
	return missingError(missing)
}

// ValidateMonitor checks the configuration needed for a headless batch run.
// At least one delivery channel must be fully configured.
func (c *Config) ValidateMonitor() error {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" && len(c.Targets) == 0 {
		missing = append(missing, "DATABASE_URL or WATCH_TARGETS")
	}
	if !c.MailConfigured() && !c.SlackConfigured() {
		missing = append(missing, "SMTP_HOST/SMTP_USERNAME/SMTP_PASSWORD/MAIL_FROM or SLACK_BOT_TOKEN/SLACK_CHANNEL_ID")
	}
	if c.MailConfigured() && c.MailAdmin == "" {
		missing = append(missing, "MAIL_ADMIN")
	}
	return missingError(missing)
}

// ValidateAnalyze checks the configuration needed for a one-off analysis.
func (c *Config) ValidateAnalyze() error {
	var missing []string
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	return missingError(missing)
}

func missingError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
}
