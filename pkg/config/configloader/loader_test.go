package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port    int           `koanf:"port"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWith_Layering(t *testing.T) {
	dir := t.TempDir()
	configFile := writeFile(t, dir, "config.yaml", "server:\n  port: 8080\n  timeout: 5s\nlog:\n  level: info\n")
	envFile := writeFile(t, dir, ".env", "TESTSVC_LOG_LEVEL=debug\nOTHER_LOG_LEVEL=error\n")

	tests := []struct {
		name      string
		env       map[string]string
		wantPort  int
		wantLevel string
	}{
		{name: "yaml and .env", wantPort: 8080, wantLevel: "debug"},
		{name: "process env wins", env: map[string]string{"TESTSVC_SERVER_PORT": "9090", "TESTSVC_LOG_LEVEL": "warn"}, wantPort: 9090, wantLevel: "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// given
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			// when
			cfg, err := LoadWith[*testConfig]("testsvc", Options{ConfigFile: configFile, EnvFile: envFile})

			// then
			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, cfg.Server.Port)
			assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
			assert.Equal(t, tt.wantLevel, cfg.Log.Level)
		})
	}
}

func TestLoadWith_MissingFilesAndInvalid(t *testing.T) {
	// given
	dir := t.TempDir()

	// when
	_, err := LoadWith[*testConfig]("testsvc", Options{
		ConfigFile: filepath.Join(dir, "absent.yaml"),
		EnvFile:    filepath.Join(dir, "absent.env"),
	})

	// then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
