package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "cloud-printer", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, 3*time.Minute, cfg.HTTP.WriteTimeout)
	assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodySize)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, 60*time.Second, cfg.Renderer.Timeout)
	assert.Empty(t, cfg.Renderer.RemoteURL)

	assert.True(t, cfg.Printing.Enabled)
	assert.Equal(t, []string{"epson", "kasa"}, cfg.Printing.Keywords)
	assert.Empty(t, cfg.Printing.HelperPaths)
	assert.Equal(t, 30*time.Second, cfg.Printing.CleanupDelay)
	assert.Equal(t, time.Hour, cfg.Printing.StaleFileAge)
	assert.Equal(t, 15*time.Minute, cfg.Printing.SweepInterval)

	assert.Equal(t, 10*time.Minute, cfg.Idempotency.TTL)
	assert.Empty(t, cfg.Idempotency.RedisAddr)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, "cloud-printer", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", `
[app]
env = "production"
port = "8081"

[printing]
enabled = false
keywords = ["star", "tm-t20"]
helper_paths = ['D:\tools\SumatraPDF.exe']
cleanup_delay = "45s"

[renderer]
remote_url = "ws://chrome:9222"
exec_path = "/usr/bin/chromium"
timeout = "20s"
`)

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "8081", cfg.App.Port)
	assert.False(t, cfg.Printing.Enabled)
	assert.Equal(t, []string{"star", "tm-t20"}, cfg.Printing.Keywords)
	assert.Equal(t, []string{`D:\tools\SumatraPDF.exe`}, cfg.Printing.HelperPaths)
	assert.Equal(t, 45*time.Second, cfg.Printing.CleanupDelay)
	assert.Equal(t, "ws://chrome:9222", cfg.Renderer.RemoteURL)
	assert.Equal(t, "/usr/bin/chromium", cfg.Renderer.ExecPath)
	assert.Equal(t, 20*time.Second, cfg.Renderer.Timeout)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", "[app]\nport = \"8081\"\n")

	t.Setenv("PRINTER_APP_PORT", "9090")
	t.Setenv("PRINTER_PRINTING_KEYWORDS", "zebra, ,receipt")
	t.Setenv("PRINTER_PRINTING_ENABLED", "false")
	t.Setenv("PRINTER_IDEMPOTENCY_REDIS_ADDR", "redis:6379")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"zebra", "receipt"}, cfg.Printing.Keywords)
	assert.False(t, cfg.Printing.Enabled)
	assert.Equal(t, "redis:6379", cfg.Idempotency.RedisAddr)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "PRINTER_LOG_LEVEL=debug\nPRINTER_APP_NAME=from-dotenv\n")

	// an explicit environment variable wins over .env
	t.Setenv("PRINTER_APP_NAME", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("PRINTER_LOG_LEVEL") })

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.App.Name)
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", "[app\nport=")

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadFrom_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad env", map[string]string{"PRINTER_APP_ENV": "staging"}, "app.env"},
		{"bad port", map[string]string{"PRINTER_APP_PORT": "http"}, "app.port"},
		{"port out of range", map[string]string{"PRINTER_APP_PORT": "70000"}, "app.port"},
		{"bad level", map[string]string{"PRINTER_LOG_LEVEL": "trace"}, "log.level"},
		{"bad format", map[string]string{"PRINTER_LOG_FORMAT": "xml"}, "log.format"},
		{"negative cleanup", map[string]string{"PRINTER_PRINTING_CLEANUP_DELAY": "-1s"}, "printing.cleanup_delay"},
		{"negative idempotency ttl", map[string]string{"PRINTER_IDEMPOTENCY_TTL": "-1m"}, "idempotency.ttl"},
		{"sampling ratio", map[string]string{"PRINTER_TELEMETRY_SAMPLING_RATIO": "1.5"}, "telemetry.sampling_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom(t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
