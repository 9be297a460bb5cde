package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMapConfigTypedAccessors(t *testing.T) {
	c := NewMapConfig(map[string]string{
		"VMC_PORT":                "1352",
		"VMC_ASSET_S3_PATH_STYLE": "true",
		"VMC_REQUEST_TIMEOUT":     "15s",
		"VMC_TX_RETRY":            "abc",
		"VMC_SECS":                "7",
	})

	require.Equal(t, 1352, c.GetIntKey("VMC_PORT"))
	require.Equal(t, 3, c.GetIntKeyWithDefault("VMC_TX_RETRY", 3))
	require.True(t, c.GetBoolKeyWithDefault("VMC_ASSET_S3_PATH_STYLE", false))
	require.False(t, c.GetBoolKeyWithDefault("VMC_MISSING", false))
	require.Equal(t, 15*time.Second, c.GetDurationKeyWithDefault("VMC_REQUEST_TIMEOUT", time.Second))
	require.Equal(t, 7*time.Second, c.GetDurationKeyWithDefault("VMC_SECS", time.Second))
	require.Equal(t, "memory", c.GetKeyWithDefault("VMC_ASSET_DRIVER", "memory"))
	require.Error(t, c.LoadFromPath("/nowhere"))
}

func TestDotenvConfigLoadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vmconsole.env")
	require.NoError(t, os.WriteFile(path, []byte("VMC_TEST_DOTENV_KEY=from-file\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("VMC_TEST_DOTENV_KEY") })

	c := NewDotenvConfig(path)
	require.NoError(t, c.Load())
	require.Equal(t, "from-file", c.GetKey("VMC_TEST_DOTENV_KEY"))
}

func TestViperConfigReadsYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vmconsole.yaml")
	require.NoError(t, os.WriteFile(path, []byte("VMC_DB_DRIVER: sqlite\nVMC_TX_RETRY: 5\n"), 0600))

	c := New(path)
	require.IsType(t, &ViperConfig{}, c)
	require.NoError(t, c.Load())
	require.Equal(t, "sqlite", c.GetKey("VMC_DB_DRIVER"))
	require.Equal(t, 5, c.GetIntKeyWithDefault("VMC_TX_RETRY", 3))
}
