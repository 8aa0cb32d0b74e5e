package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Chdir(t.TempDir())
	os.Args = []string{"testbin"}

	t.Setenv("MATRIMO_SERVER_DATABASE_DSN", "postgres://env")
	t.Setenv("MATRIMO_SERVER_ACCESS_TOKEN_TTL", "2m")
	t.Setenv("MATRIMO_SERVER_RESET_CODE_TTL", "90")

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg)

	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 90*time.Second, cfg.ResetCodeValidityDuration)
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
}

func TestParseEnv_DotenvInWorkingDir(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	dir := t.TempDir()
	t.Chdir(dir)
	os.Args = []string{"testbin"}

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MATRIMO_SERVER_SECRET_KEY=dotenv-secret\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("MATRIMO_SERVER_SECRET_KEY") })

	var cfg Config
	parseEnv(&cfg)
	assert.Equal(t, "dotenv-secret", cfg.SecretKey)
}
