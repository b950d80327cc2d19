package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-postal/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.Equal(t, config.ProviderPickup, cfg.Provider)
	assert.Equal(t, "views", cfg.Views.Dir)
	assert.Equal(t, 25, cfg.SMTP.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_Includes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "smtp.yaml", `
smtp:
  host: mail.example.com
  port: 587
  security: starttls
log:
  level: warn
`)
	p := writeFile(t, dir, "postal.yaml", `
includes:
  - "*smtp.yaml"
provider: smtp
log:
  level: debug
`)

	cfg, err := config.LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "smtp", cfg.Provider)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "starttls", cfg.SMTP.Security)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := config.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	p := writeFile(t, dir, "bad.yaml", "provider: [smtp\n")
	_, err = config.LoadFile(p)
	assert.ErrorContains(t, err, "failed to parse config file")

	p = writeFile(t, dir, "inc.yaml", "includes: [bad.yaml]\n")
	_, err = config.LoadFile(p)
	assert.ErrorContains(t, err, "failed to load include")
}

func TestLoadFile_IncludeCycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, dir, "self.yaml", "includes: [self.yaml]\nprovider: smtp\n")
	_, err := config.LoadFile(p)
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.ErrorContains(t, err, "include cycle")

	writeFile(t, dir, "a.yaml", "includes: [b.yaml]\n")
	writeFile(t, dir, "b.yaml", "includes: [a.yaml]\n")
	_, err = config.LoadFile(filepath.Join(dir, "a.yaml"))
	assert.ErrorContains(t, err, "include cycle")

	writeFile(t, dir, "shared.yaml", "smtp:\n  host: shared.example.com\n")
	writeFile(t, dir, "left.yaml", "includes: [shared.yaml]\n")
	writeFile(t, dir, "right.yaml", "includes: [shared.yaml]\n")
	p = writeFile(t, dir, "top.yaml", "includes: [left.yaml, right.yaml]\n")
	cfg, err := config.LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "shared.example.com", cfg.SMTP.Host)
}

func TestLoad_BadEnvPort(t *testing.T) {
	t.Setenv("POSTAL_SMTP_PORT", "twenty-five")

	_, err := config.Load("")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoad_FileOverDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeFile(t, dir, "postal.yaml", `
provider: ses
ses:
  region: us-west-2
`)

	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "ses", cfg.Provider)
	assert.Equal(t, "us-west-2", cfg.SES.Region)
	assert.Equal(t, "views", cfg.Views.Dir)
	assert.Equal(t, "localhost", cfg.SMTP.Host)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	err := cfg.ApplyEnv(env(map[string]string{
		"POSTAL_PROVIDER":      "SMTP",
		"POSTAL_SMTP_HOST":     "relay.example.com",
		"POSTAL_SMTP_PORT":     "2525",
		"POSTAL_SMTP_SECURITY": "TLS",
		"POSTAL_PICKUP_DIR":    "",
		"POSTAL_IMAGE_DIR":     "/srv/img",
		"POSTAL_LOG_LEVEL":     "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, "smtp", cfg.Provider)
	assert.Equal(t, "relay.example.com", cfg.SMTP.Host)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "tls", cfg.SMTP.Security)
	assert.Equal(t, "pickup", cfg.Pickup.Dir)
	assert.Equal(t, "/srv/img", cfg.Views.ImageDir)
	assert.Equal(t, "debug", cfg.Log.Level)

	err = cfg.ApplyEnv(env(map[string]string{"POSTAL_SMTP_PORT": "many"}))
	assert.ErrorIs(t, err, config.ErrInvalid)
	assert.ErrorContains(t, err, `POSTAL_SMTP_PORT "many"`)
	assert.Equal(t, 2525, cfg.SMTP.Port)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Config)
		ok     bool
	}{
		{"defaults", func(*config.Config) {}, true},
		{"smtp", func(c *config.Config) { c.Provider = config.ProviderSMTP }, true},
		{"ses", func(c *config.Config) { c.Provider = config.ProviderSES }, true},
		{"smtp no host", func(c *config.Config) {
			c.Provider = config.ProviderSMTP
			c.SMTP.Host = ""
		}, false},
		{"smtp bad port", func(c *config.Config) {
			c.Provider = config.ProviderSMTP
			c.SMTP.Port = 70000
		}, false},
		{"pickup no dir", func(c *config.Config) { c.Pickup.Dir = "" }, false},
		{"unknown", func(c *config.Config) { c.Provider = "carrier-pigeon" }, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, config.ErrInvalid)
			}
		})
	}
}
