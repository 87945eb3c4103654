package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
		},
		"vapid": map[string]any{
			"publicKey":  "",
			"privateKey": "",
		},
		"alerts": map[string]any{
			"seenCap":                   200,
			"markSeenOnDeliveryFailure": true,
		},
		"catalog": map[string]any{
			"baseUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "VAPID_PRIVATEKEY", want: "vapid.privateKey"},
		{envKey: "ALERTS_SEENCAP", want: "alerts.seenCap"},
		{envKey: "ALERTS_MARKSEENONDELIVERYFAILURE", want: "alerts.markSeenOnDeliveryFailure"},
		{envKey: "CATALOG_BASEURL", want: "catalog.baseUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestLoadWithEnv_OverridesYAMLFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	yamlBody := `
env:
  env: test
catalog:
  baseUrl: http://catalog.local
  timeout: 3s
  stores:
    - id: "294"
      name: Krakow
alerts:
  seenCap: 200
  deliveryMode: mailbox
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlBody), 0o600))
	t.Chdir(dir)
	t.Setenv("ALERTS_SEENCAP", "50")
	t.Setenv("CATALOG_BASEURL", "http://override.local")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Alerts.SeenCap)
	assert.Equal(t, "http://override.local", cfg.Catalog.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	require.Len(t, cfg.Catalog.Stores, 1)
	assert.Equal(t, "294", cfg.Catalog.Stores[0].ID)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	require.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 200, cfg.Alerts.SeenCap)
	assert.Equal(t, 300*time.Second, cfg.Alerts.MailboxTTL)
	assert.Equal(t, "mailbox", cfg.Alerts.DeliveryMode)
	assert.Equal(t, "alert", cfg.Alerts.SeenScope)
	assert.Equal(t, "aes128gcm", cfg.Push.ContentEncoding)
	assert.Equal(t, 60, cfg.Push.TTL)
	assert.Equal(t, 20, cfg.Catalog.MaxPages)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, 10*time.Minute, cfg.Scheduler.Interval)
	require.NotNil(t, cfg.Alerts.MarkSeenOnDeliveryFailure)
	assert.True(t, *cfg.Alerts.MarkSeenOnDeliveryFailure)
}

func TestMarkSeenOnDeliveryFailure(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want bool
	}{
		{name: "absent key defaults to marking seen", yaml: "alerts:\n  seenCap: 10\n", want: true},
		{name: "explicit false keeps retry policy", yaml: "alerts:\n  markSeenOnDeliveryFailure: false\n", want: false},
		{name: "explicit true", yaml: "alerts:\n  markSeenOnDeliveryFailure: true\n", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.yaml), 0o600))
			t.Chdir(dir)

			cfg, err := LoadWithEnv[Config]("config")
			require.NoError(t, err)
			cfg.applyDefaults()

			assert.Equal(t, tt.want, cfg.Alerts.MarksSeenOnDeliveryFailure())
			require.NotNil(t, cfg.Alerts.MarkSeenOnDeliveryFailure)
			assert.Equal(t, tt.want, *cfg.Alerts.MarkSeenOnDeliveryFailure)
		})
	}

	assert.True(t, AlertsConfig{}.MarksSeenOnDeliveryFailure())
}
