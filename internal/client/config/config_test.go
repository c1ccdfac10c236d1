package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://backend-hedera.onrender.com/api/documents", c.ServerBaseURL)
	assert.Equal(t, int64(25<<20), c.GeneralMaxSize)
	assert.Equal(t, int64(10<<20), c.IdentityMaxSize)
	assert.Equal(t, 200*time.Millisecond, c.ProgressInterval)
	assert.Equal(t, 50, c.GeneralProgressCap)
	assert.Equal(t, 90, c.IdentityProgressCap)
	assert.Equal(t, 2*time.Second, c.RefreshDelay)
	assert.Equal(t, "https://hashscan.io", c.ExplorerBaseURL)
	assert.Equal(t, 3, c.FreeDocumentLimit)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_JSONOverridesOnlyNamedKeys(t *testing.T) {
	p := writeTemp(t, "cfg.json", `{
		"server_url": "https://anchor.example/api/documents",
		"refresh_delay": "5s",
		"progress_interval": 100000000,
		"general_max_size": "20 MiB",
		"identity_max_size": 1048576
	}`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "https://anchor.example/api/documents", cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RefreshDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.ProgressInterval)
	assert.Equal(t, int64(20<<20), cfg.GeneralMaxSize)
	assert.Equal(t, int64(1<<20), cfg.IdentityMaxSize)

	// untouched
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, uint64(5), cfg.RefreshMaxAttempts)
}

func TestLoadConfig_YAML(t *testing.T) {
	p := writeTemp(t, "cfg.yaml", `
user_id: user-42
network: mainnet
refresh_backoff: 250ms
strict_pdf: true
identity_max_size: 8 MiB
log_format: json
`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "user-42", cfg.UserID)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, 250*time.Millisecond, cfg.RefreshBackoff)
	assert.True(t, cfg.StrictPDF)
	assert.Equal(t, int64(8<<20), cfg.IdentityMaxSize)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	p := writeTemp(t, "cfg.json", `{"user_id": "from-file", "log_level": "warn"}`)
	t.Setenv(EnvUserID, "from-env")
	t.Setenv(EnvServerURL, "http://localhost:3000/api/documents")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.UserID)
	assert.Equal(t, "http://localhost:3000/api/documents", cfg.ServerBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeTemp(t, "bad.json", `{"refresh_delay": "soon"}`))
	assert.Error(t, err)

	_, err = LoadConfig(writeTemp(t, "bad.yml", "general_max_size: lots\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.ServerBaseURL = "not a url"
	c.GeneralProgressCap = 100
	c.DigestAlgorithm = "md5"
	c.LogFormat = "xml"

	err := c.Validate()
	require.Error(t, err)
	for _, part := range []string{"server url", "general progress cap", "md5", "log format"} {
		assert.Contains(t, err.Error(), part)
	}
}
