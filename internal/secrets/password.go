package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"interview-engine/internal/config"
)

const (
	// KeyringService groups the engine's secrets in the OS keychain.
	KeyringService = "interview-engine"

	EnvIMAPPassword = "INTERVIEW_IMAP_PASSWORD"
	EnvLinkupAPIKey = "LINKUP_API_KEY"

	linkupAccount = "linkup:api_key"
)

var ErrNotFound = errors.New("secret not found")

func GetIMAPPassword(keyringAccount string) (string, error) {
	// 1) Keyring first (recommended)
	if strings.TrimSpace(keyringAccount) != "" {
		pw, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	// 2) Env fallback for headless runs
	if pw := strings.TrimSpace(os.Getenv(EnvIMAPPassword)); pw != "" {
		return pw, nil
	}

	return "", fmt.Errorf("IMAP password: %w (set it in keychain or %s)", ErrNotFound, EnvIMAPPassword)
}

func SetIMAPPassword(keyringAccount string, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteIMAPPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// IMAPKeyringAccount is the keychain account for the configured mailbox.
func IMAPKeyringAccount(cfg config.Config) string {
	if a := strings.TrimSpace(cfg.Email.IMAP.KeyringAccount); a != "" {
		return a
	}
	return fmt.Sprintf(
		"interview:imap:%s@%s",
		cfg.Email.IMAP.Username,
		cfg.Email.IMAP.Host,
	)
}

// GetLinkupAPIKey prefers the environment (.env) over the keychain.
func GetLinkupAPIKey() (string, error) {
	if k := strings.TrimSpace(os.Getenv(EnvLinkupAPIKey)); k != "" {
		return k, nil
	}
	k, err := keyring.Get(KeyringService, linkupAccount)
	if err == nil && strings.TrimSpace(k) != "" {
		return k, nil
	}
	return "", fmt.Errorf("linkup api key: %w (set %s)", ErrNotFound, EnvLinkupAPIKey)
}

func SetLinkupAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, linkupAccount, key)
}
