package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a trimmed copy of cfg plus every problem found.
// Warnings never block a save.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Email.Source = strings.ToLower(strings.TrimSpace(out.Email.Source))
	out.Email.IMAP.Host = strings.TrimSpace(out.Email.IMAP.Host)
	out.Email.IMAP.Username = strings.TrimSpace(out.Email.IMAP.Username)
	out.Classifier.LexiconPath = strings.TrimSpace(out.Classifier.LexiconPath)

	if err := Validate(out); err != nil {
		for _, line := range strings.Split(err.Error(), "\n- ")[1:] {
			res.addErr("%s", line)
		}
	}

	// polling sanity
	if out.Polling.Enabled {
		if out.Polling.ScanSeconds <= 0 {
			res.addErr("polling.scan_seconds must be > 0")
		} else if out.Polling.ScanSeconds < 60 {
			res.addWarn("polling.scan_seconds is very low (%d) and may cause rate limits.", out.Polling.ScanSeconds)
		}
		if out.Email.Source == "none" {
			res.addWarn("polling is enabled but email.source is none; scans will find nothing.")
		}
	}

	// source required fields (password not required here; it's in keychain)
	switch out.Email.Source {
	case "imap":
		if out.Email.IMAP.Host == "" {
			res.addErr("email.imap.host is required when email.source=imap")
		}
		if out.Email.IMAP.Port == 0 {
			res.addErr("email.imap.port is required when email.source=imap")
		}
		if out.Email.IMAP.Username == "" {
			res.addErr("email.imap.username is required when email.source=imap")
		}
		if strings.TrimSpace(out.Email.IMAP.Mailbox) == "" {
			res.addErr("email.imap.mailbox is required when email.source=imap")
		}
	case "gmail":
		if strings.TrimSpace(out.Email.Gmail.CredentialsFile) == "" {
			res.addErr("email.gmail.credentials_file is required when email.source=gmail")
		}
	}

	if out.Email.MaxMessages > 500 {
		res.addWarn("email.max_messages is %d; large scans are slow.", out.Email.MaxMessages)
	}
	if out.Classifier.MinScore == 1 {
		res.addWarn("classifier.min_score=1 lets a single role word through.")
	}
	if out.Classifier.RecencyDays > 365 {
		res.addWarn("classifier.recency_days=%d keeps dates from old forwarded threads.", out.Classifier.RecencyDays)
	}
	if out.Calendar.Enabled && strings.TrimSpace(out.Calendar.CredentialsFile) == "" {
		res.addErr("calendar.credentials_file is required when calendar.enabled=true")
	}

	return out, res
}
