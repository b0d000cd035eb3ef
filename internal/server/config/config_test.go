package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, StoragePostgres, c.Storage)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 30*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, HasherBcrypt, c.PasswordHasher)
	assert.NotEqual(t, c.AccessTokenSecret, c.RefreshTokenSecret)
	require.NoError(t, c.Validate())
}

func TestLoad_NoSourcesKeepsDefaults(t *testing.T) {
	got := load(nil, noEnv)
	assert.Empty(t, cmp.Diff(defaults(), got))
}

func TestParseFlags(t *testing.T) {
	c := defaults()
	parseFlags(c, []string{
		"-a", "127.0.0.1:9090", "-m", ":9191", "-k", "memory", "-d", "db",
		"-s", "acc", "-S", "ref", "-t", "5", "-r", "60", "-H", "argon2id", "-l", "debug",
		"-unrelated", "x",
	})

	want := defaults()
	want.EndpointAddrGRPC = "127.0.0.1:9090"
	want.MetricsAddr = ":9191"
	want.Storage = StorageMemory
	want.DatabaseDSN = "db"
	want.AccessTokenSecret = "acc"
	want.RefreshTokenSecret = "ref"
	want.AccessTokenValidityDuration = 5 * time.Minute
	want.RefreshTokenValidityDuration = time.Hour
	want.PasswordHasher = HasherArgon2id
	want.LogLevel = "debug"

	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseJson_OverlaysPresentKeys(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_grpc":              "www.example:9000",
		"access_token_secret":             "json-access",
		"refresh_token_secret":            "json-refresh",
		"access_token_validity_duration":  "10m",
		"refresh_token_validity_duration": "48h",
		"smtp_host":                       "smtp.example",
		"smtp_port":                       2525,
	})

	c := defaults()
	parseJson(c, []string{"-config", path})

	assert.Equal(t, "www.example:9000", c.EndpointAddrGRPC)
	assert.Equal(t, "json-access", c.AccessTokenSecret)
	assert.Equal(t, "json-refresh", c.RefreshTokenSecret)
	assert.Equal(t, 10*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 48*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, "smtp.example", c.SMTPHost)
	assert.Equal(t, 2525, c.SMTPPort)
	// untouched keys keep their defaults
	assert.Equal(t, defaults().DatabaseDSN, c.DatabaseDSN)
}

func TestParseJson_InvalidPanics(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	require.Panics(t, func() { parseJson(defaults(), []string{"-c", bad}) })
	require.Panics(t, func() { parseJson(defaults(), []string{"-c", filepath.Join(t.TempDir(), "missing.json")}) })
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"access_token_secret": "from-json",
		"database_dsn":        "json-dsn",
	})
	env := map[string]string{
		EnvAccessTokenSecret: "from-env",
		EnvSMTPPort:          "465",
	}

	c := load([]string{"-c", path, "-s", "from-flag"}, func(k string) string { return env[k] })

	assert.Equal(t, "from-flag", c.AccessTokenSecret)
	assert.Equal(t, "json-dsn", c.DatabaseDSN)
	assert.Equal(t, 465, c.SMTPPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty access secret", mutate: func(c *Config) { c.AccessTokenSecret = "" }},
		{name: "equal secrets", mutate: func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret }},
		{name: "zero access ttl", mutate: func(c *Config) { c.AccessTokenValidityDuration = 0 }},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage = "redis" }},
		{name: "unknown hasher", mutate: func(c *Config) { c.PasswordHasher = "md5" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
