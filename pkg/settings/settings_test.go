package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/property"
)

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestDefaults(t *testing.T) {
	s, err := Load(flags(t))
	require.NoError(t, err)
	require.Equal(t, codec.Default(), s.Base)
	require.Zero(t, s.Seed)
	require.Equal(t, driver.Unlimited, s.Budget)
	require.Equal(t, property.DefaultStreamLen, s.StreamLen)
	require.Equal(t, "info", s.LogLevel)
}

func TestFlags(t *testing.T) {
	s, err := Load(flags(t, "--alphabet", "url-safe", "--padding", "require-none", "--iterations", "7", "--seed", "99"))
	require.NoError(t, err)
	require.Equal(t, codec.URLSafeAlphabet, s.Base.Alphabet)
	require.Equal(t, codec.RequireNone, s.Base.Padding)
	require.Equal(t, 7, s.Base.Iterations)
	require.Equal(t, uint64(99), s.Seed)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CODECPROP_ITERATIONS", "12")
	t.Setenv("CODECPROP_MAX_INPUT_SIZE", "64")
	t.Setenv("CODECPROP_TRACK_MEMORY", "true")

	s, err := Load(flags(t))
	require.NoError(t, err)
	require.Equal(t, 12, s.Base.Iterations)
	require.Equal(t, 64, s.Base.MaxInputSize)
	require.True(t, s.TrackMemory)

	// Flags win over the environment.
	s, err = Load(flags(t, "--iterations", "3"))
	require.NoError(t, err)
	require.Equal(t, 3, s.Base.Iterations)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codecprop.yaml")
	content := []byte("padding: indifferent\niterations: 40\nlog-level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	s, err := Load(flags(t, "--config-file", path))
	require.NoError(t, err)
	require.Equal(t, codec.Indifferent, s.Base.Padding)
	require.Equal(t, 40, s.Base.Iterations)
	require.Equal(t, "debug", s.LogLevel)

	_, err = Load(flags(t, "--config-file", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}

func TestInvalidSettings(t *testing.T) {
	tests := map[string][]string{
		"alphabet":   {"--alphabet", "base32"},
		"custom":     {"--alphabet", "custom:ABC"},
		"padding":    {"--padding", "sometimes"},
		"iterations": {"--iterations", "0"},
		"stream":     {"--stream-len", "0"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(flags(t, args...))
			require.Error(t, err)
		})
	}
}
