package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT", `{"client_email":"svc@example.iam.gserviceaccount.com"}`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "455753973", cfg.Analytics.PropertyID)
	assert.Equal(t, "GOOGLE_SERVICE_ACCOUNT", cfg.Analytics.CredentialsEnv)
	assert.Equal(t, `{"client_email":"svc@example.iam.gserviceaccount.com"}`, cfg.Analytics.Credentials)
	assert.Equal(t, "*", cfg.CORS.AllowOrigin)
	assert.Equal(t, []string{"GET", "OPTIONS"}, cfg.CORS.AllowMethods)
	assert.Equal(t, []string{"Content-Type"}, cfg.CORS.AllowHeaders)
}

func TestLoadMissingCredentialsIsNotALoadError(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Analytics.Credentials)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.yaml")
	body := `
server:
  port: 9000
  requestTimeout: 5s
analytics:
  propertyId: "123"
  credentialsEnv: WIDGET_SA
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("WIDGET_SA", "{}")
	t.Setenv("LW_SERVER_PORT", "9100")
	t.Setenv("LW_METRICS_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "123", cfg.Analytics.PropertyID)
	assert.Equal(t, "{}", cfg.Analytics.Credentials)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	// untouched keys keep their defaults
	assert.Equal(t, "https://analyticsdata.googleapis.com/v1beta", cfg.Analytics.BaseURL)
}

func TestLoadRejectsNonNumericProperty(t *testing.T) {
	t.Setenv("LW_ANALYTICS_PROPERTY_ID", "properties/abc")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
