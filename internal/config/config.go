package config

import (
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"interview-engine/internal/rank"
)

//go:embed default.yml
var defaultYAML []byte

type Config struct {
	App struct {
		Port       int    `yaml:"port"`
		DataDir    string `yaml:"data_dir"`
		LogLevel   string `yaml:"log_level"`
		PrettyLogs bool   `yaml:"pretty_logs"`
	} `yaml:"app"`

	Polling struct {
		Enabled             bool `yaml:"enabled"`
		ScanSeconds         int  `yaml:"scan_seconds"`
		FetchTimeoutSeconds int  `yaml:"fetch_timeout_seconds"`
	} `yaml:"polling"`

	Email struct {
		Source      string `yaml:"source"` // imap, gmail or none
		SinceDays   int    `yaml:"since_days"`
		MaxMessages int    `yaml:"max_messages"`

		IMAP struct {
			Host           string `yaml:"host"`
			Port           int    `yaml:"port"`
			Username       string `yaml:"username"`
			Mailbox        string `yaml:"mailbox"`
			KeyringAccount string `yaml:"keyring_account"`
		} `yaml:"imap"`

		Gmail struct {
			CredentialsFile string `yaml:"credentials_file"`
			TokenFile       string `yaml:"token_file"`
			Query           string `yaml:"query"`
		} `yaml:"gmail"`
	} `yaml:"email"`

	Classifier struct {
		MinScore      int           `yaml:"min_score"`
		RecencyDays   int           `yaml:"recency_days"`
		LexiconPath   string        `yaml:"lexicon_path"`
		CompaniesPath string        `yaml:"companies_path"`
		Workers       int           `yaml:"workers"`
		Weights       *rank.Weights `yaml:"weights,omitempty"`
	} `yaml:"classifier"`

	Calendar struct {
		Enabled         bool   `yaml:"enabled"`
		CalendarID      string `yaml:"calendar_id"`
		DurationMinutes int    `yaml:"duration_minutes"`
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
	} `yaml:"calendar"`

	Research struct {
		Endpoint          string  `yaml:"endpoint"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		MaxQuestions      int     `yaml:"max_questions"`
	} `yaml:"research"`

	Store struct {
		RetentionDays int `yaml:"retention_days"`
	} `yaml:"store"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic("config: embedded default: " + err.Error())
	}
	return cfg
}

func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 38471
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Polling.ScanSeconds == 0 {
		cfg.Polling.ScanSeconds = 900
	}
	if cfg.Polling.FetchTimeoutSeconds == 0 {
		cfg.Polling.FetchTimeoutSeconds = 60
	}
	cfg.Email.Source = strings.ToLower(strings.TrimSpace(cfg.Email.Source))
	if cfg.Email.Source == "" {
		cfg.Email.Source = "none"
	}
	if cfg.Email.SinceDays == 0 {
		cfg.Email.SinceDays = 14
	}
	if cfg.Email.MaxMessages == 0 {
		cfg.Email.MaxMessages = 50
	}
	if cfg.Email.IMAP.Mailbox == "" {
		cfg.Email.IMAP.Mailbox = "INBOX"
	}
	if cfg.Email.IMAP.Port == 0 {
		cfg.Email.IMAP.Port = 993
	}
	if cfg.Classifier.MinScore == 0 {
		cfg.Classifier.MinScore = rank.DefaultMinScore
	}
	if cfg.Classifier.RecencyDays == 0 {
		cfg.Classifier.RecencyDays = 180
	}
	if cfg.Calendar.CalendarID == "" {
		cfg.Calendar.CalendarID = "primary"
	}
	if cfg.Calendar.DurationMinutes == 0 {
		cfg.Calendar.DurationMinutes = 60
	}
	if cfg.Research.Endpoint == "" {
		cfg.Research.Endpoint = "https://api.linkup.so/v1/search"
	}
	if cfg.Research.RequestsPerSecond == 0 {
		cfg.Research.RequestsPerSecond = 1
	}
	if cfg.Research.TimeoutSeconds == 0 {
		cfg.Research.TimeoutSeconds = 30
	}
	if cfg.Research.MaxQuestions == 0 {
		cfg.Research.MaxQuestions = 8
	}
	if cfg.Store.RetentionDays == 0 {
		cfg.Store.RetentionDays = 365
	}
}
