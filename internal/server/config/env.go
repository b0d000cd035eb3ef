package config

import "strconv"

// Environment variables recognised by parseEnv. Secrets are usually injected
// this way rather than through flags, which leak into process listings.
const (
	EnvAccessTokenSecret  = "GATEKEEPER_ACCESS_TOKEN_SECRET"
	EnvRefreshTokenSecret = "GATEKEEPER_REFRESH_TOKEN_SECRET"
	EnvDatabaseDSN        = "GATEKEEPER_DATABASE_DSN"
	EnvSMTPPassword       = "GATEKEEPER_SMTP_PASSWORD"
	EnvSMTPPort           = "GATEKEEPER_SMTP_PORT"
)

func parseEnv(config *Config, getenv func(string) string) {
	if v := getenv(EnvAccessTokenSecret); v != "" {
		config.AccessTokenSecret = v
	}
	if v := getenv(EnvRefreshTokenSecret); v != "" {
		config.RefreshTokenSecret = v
	}
	if v := getenv(EnvDatabaseDSN); v != "" {
		config.DatabaseDSN = v
	}
	if v := getenv(EnvSMTPPassword); v != "" {
		config.SMTPPassword = v
	}
	if v := getenv(EnvSMTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.SMTPPort = port
		}
	}
}
