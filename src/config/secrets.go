package config

import "fmt"

// SecretGetter fetches a plain-text secret by id.
type SecretGetter interface {
	GetSecretValue(secretID string) (string, error)
}

// ResolveSecrets fills credentials that are kept in a secret store instead of
// the settings files. Only secrets with a configured id are fetched.
func ResolveSecrets(cfg *Config, getter SecretGetter) error {
	if cfg.Secrets.DatabasePasswordSecretID != "" {
		value, err := getter.GetSecretValue(cfg.Secrets.DatabasePasswordSecretID)
		if err != nil {
			return fmt.Errorf("failed to resolve database password: %w", err)
		}
		cfg.Databases.SQL.Password = value
	}
	if cfg.Secrets.XraySecretID != "" {
		value, err := getter.GetSecretValue(cfg.Secrets.XraySecretID)
		if err != nil {
			return fmt.Errorf("failed to resolve xray client secret: %w", err)
		}
		cfg.ExternalClients.Xray.ClientSecret = value
	}
	return nil
}

// HasSecrets reports whether any secret id is configured.
func (c *Config) HasSecrets() bool {
	return c.Secrets.DatabasePasswordSecretID != "" || c.Secrets.XraySecretID != ""
}
