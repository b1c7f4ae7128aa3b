package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Classifier.MinScore < 1 {
		errs = append(errs, "classifier.min_score must be >= 1")
	}
	if cfg.Classifier.RecencyDays < 1 {
		errs = append(errs, "classifier.recency_days must be >= 1")
	}
	if cfg.Classifier.Workers < 0 {
		errs = append(errs, "classifier.workers must be >= 0")
	}
	if w := cfg.Classifier.Weights; w != nil {
		if w.ATS < 0 || w.Provider < 0 || w.Role < 0 || w.Link < 0 || w.DateTime < 0 {
			errs = append(errs, "classifier.weights cannot be negative")
		}
		if w.PhrasesPerPoint < 1 {
			errs = append(errs, "classifier.weights.phrases_per_point must be >= 1")
		}
	}

	switch cfg.Email.Source {
	case "imap", "gmail", "none":
	default:
		errs = append(errs, fmt.Sprintf("email.source %q must be imap, gmail or none", cfg.Email.Source))
	}
	if cfg.Email.SinceDays < 1 {
		errs = append(errs, "email.since_days must be >= 1")
	}
	if cfg.Calendar.DurationMinutes < 1 {
		errs = append(errs, "calendar.duration_minutes must be >= 1")
	}
	if cfg.Research.RequestsPerSecond <= 0 {
		errs = append(errs, "research.requests_per_second must be > 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
