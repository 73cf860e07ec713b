// FILE: lixenwraith/smartlog/config_test.go
package smartlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "warning", cfg.Level)
	assert.Equal(t, StrategyGrow, cfg.QueueStrategy)
	assert.Equal(t, int64(16), cfg.BufferSize)
	assert.Equal(t, int64(0), cfg.HeartbeatIntervalMs)
	assert.NoError(t, cfg.Validate())

	// Copies are independent
	cfg.Level = "debug"
	assert.Equal(t, "warning", DefaultConfig().Level)
}

func TestConfigClone(t *testing.T) {
	cfg1 := DefaultConfig()
	cfg1.Level = "debug"

	cfg2 := cfg1.Clone()
	cfg1.Level = "error"

	assert.Equal(t, "debug", cfg2.Level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError string
	}{
		{"valid alias", func(c *Config) { c.Level = "crit" }, ""},
		{"invalid level", func(c *Config) { c.Level = "loud" }, "invalid level"},
		{"invalid strategy", func(c *Config) { c.QueueStrategy = "ring" }, "queue_strategy"},
		{"zero buffer", func(c *Config) { c.BufferSize = 0 }, "buffer_size"},
		{"negative heartbeat", func(c *Config) { c.HeartbeatIntervalMs = -5 }, "heartbeat_interval_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestApplyOverride(t *testing.T) {
	t.Run("valid overrides", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("level=debug", "buffer_size = 64", "heartbeat_interval_ms=250")
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Level)
		assert.Equal(t, int64(64), cfg.BufferSize)
		assert.Equal(t, int64(250), cfg.HeartbeatIntervalMs)
	})

	t.Run("failure leaves config unchanged", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("level=debug", "buffer_size=lots")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Equal(t, "warning", cfg.Level)
	})

	t.Run("validation failure leaves config unchanged", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("buffer_size=-1")
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Equal(t, int64(16), cfg.BufferSize)
	})

	t.Run("multiple errors are combined", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.ApplyOverride("nokey", "colour=blue")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "multiple configuration errors")
		assert.Contains(t, err.Error(), "1. ")
		assert.Contains(t, err.Error(), "2. ")
	})
}

func TestApplyOverridesGeneric(t *testing.T) {
	type sinkConfig struct {
		Path    string  `toml:"path"`
		Enabled bool    `toml:"enabled"`
		Ratio   float64 `toml:"ratio"`
		Skip    string
	}

	cfg := &sinkConfig{}
	err := ApplyOverrides(cfg, "path=/tmp/x", "enabled=true", "ratio=0.5")
	require.NoError(t, err)
	assert.Equal(t, sinkConfig{Path: "/tmp/x", Enabled: true, Ratio: 0.5}, *cfg)

	assert.Error(t, ApplyOverrides(*cfg, "path=/y"), "non-pointer target")
	assert.Error(t, ApplyOverrides(cfg, "Skip=1"), "untagged fields are not addressable")
}

func TestSelectOverrides(t *testing.T) {
	all := []string{"agent.level=info", "file.directory=/tmp", " file.utc=true", "syslog.id=app"}

	assert.Equal(t, []string{"directory=/tmp", "utc=true"}, SelectOverrides("file.", all))
	assert.Equal(t, []string{"level=info"}, SelectOverrides(ConfigPrefix, all))
	assert.Nil(t, SelectOverrides("console.", all))
}

func TestNewConfigFromFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("values from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "smartlog.toml")
		content := "[agent]\nlevel = \"info\"\nbuffer_size = 128\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, int64(128), cfg.BufferSize)
		assert.Equal(t, StrategyGrow, cfg.QueueStrategy)
	})

	t.Run("invalid value in file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "smartlog.toml")
		require.NoError(t, os.WriteFile(path, []byte("[agent]\nqueue_strategy = \"ring\"\n"), 0644))

		_, err := NewConfigFromFile(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
