package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"MONGO_URI", "MONGO_DB", "FRONTEND_ORIGINS", "LOG_LEVEL", "TZ", "METRICS_ENABLED", "RATE_LIMIT_FORMS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "nextglide", cfg.MongoDB)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.FrontendOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone.String())
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 5, cfg.RateLimitForms)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MONGO_URI", "mongodb://db:27017/content?retryWrites=true")
	t.Setenv("MONGO_DB", "")
	t.Setenv("FRONTEND_ORIGINS", "https://nextglide.in/, https://admin.nextglide.in ,")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "content", cfg.MongoDB)
	assert.Equal(t, []string{"https://nextglide.in", "https://admin.nextglide.in"}, cfg.FrontendOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nNG_TEST_A=\"from-file\"\nNG_TEST_B=file\nbroken line\n"), 0o600))
	t.Setenv("NG_TEST_B", "from-env")
	t.Cleanup(func() { os.Unsetenv("NG_TEST_A") })

	loadDotEnv(path)

	assert.Equal(t, "from-file", os.Getenv("NG_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("NG_TEST_B"))
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TZ", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)
}
