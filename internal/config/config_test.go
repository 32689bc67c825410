package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ADDR", "")
	t.Setenv("CATALOG_TIMEOUT", "")
	t.Setenv("COVER_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.CatalogTimeout)
	assert.Equal(t, 3*time.Second, cfg.CoverTimeout)
	assert.Equal(t, "/static/no_cover.jpeg", cfg.CoverPlaceholderURL)
	assert.Equal(t, "https://openlibrary.org", cfg.OpenLibraryBaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("COVER_TIMEOUT", "750ms")
	t.Setenv("OPENLIBRARY_RPS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.CoverTimeout)
	assert.Equal(t, 2, cfg.OpenLibraryRPS)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CATALOG_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "CATALOG_TIMEOUT")
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")

	if err := os.WriteFile(p, []byte("DB_DSN=from_file\nCOVER_PLACEHOLDER_URL=/from/file.jpeg\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("DB_DSN", "from_env")
	t.Setenv("COVER_PLACEHOLDER_URL", "")
	os.Unsetenv("COVER_PLACEHOLDER_URL")
	t.Cleanup(func() { _ = os.Unsetenv("COVER_PLACEHOLDER_URL") })

	cwd, _ := os.Getwd()
	_ = os.Chdir(tmp)
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "/from/file.jpeg", os.Getenv("COVER_PLACEHOLDER_URL"))
}
