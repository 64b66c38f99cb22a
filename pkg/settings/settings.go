// Package settings resolves harness settings from defaults, an optional
// config file, CODECPROP_* environment variables and command line flags, in
// increasing order of precedence.
package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Beastly713/codecprop/pkg/codec"
	"github.com/Beastly713/codecprop/pkg/driver"
	"github.com/Beastly713/codecprop/pkg/logging"
	"github.com/Beastly713/codecprop/pkg/property"
)

const EnvPrefix = "CODECPROP"

const (
	ConfigFileKey   = "config-file"
	AlphabetKey     = "alphabet"
	PaddingKey      = "padding"
	IterationsKey   = "iterations"
	MaxInputSizeKey = "max-input-size"
	SeedKey         = "seed"
	BudgetKey       = "budget"
	StreamLenKey    = "stream-len"
	TrackMemoryKey  = "track-memory"
	LogLevelKey     = "log-level"
	LogFormatKey    = "log-format"
)

// Settings is everything a command needs to build a runner.
type Settings struct {
	Base        codec.Config
	Seed        uint64
	Budget      int
	StreamLen   int
	TrackMemory bool
	LogLevel    string
	LogFormat   string
}

// AddFlags registers the settings flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFileKey, "", "Path to a YAML settings file")
	fs.String(AlphabetKey, codec.Standard.String(), "Base alphabet: standard, url-safe or custom:<64 symbols>")
	fs.String(PaddingKey, codec.Canonical.String(), "Base padding policy")
	fs.Int(IterationsKey, codec.DefaultIterations, "Successful draws required per property")
	fs.Int(MaxInputSizeKey, codec.DefaultMaxInputSize, "Ceiling on generated input sizes")
	fs.Uint64(SeedKey, 0, "Seed of the first draw; draw i uses seed+i")
	fs.Int(BudgetKey, driver.Unlimited, "Bytes one draw may consume, negative for unlimited")
	fs.Int(StreamLenKey, property.DefaultStreamLen, "Longest byte stream gopter generates")
	fs.Bool(TrackMemoryKey, false, "Record heap allocated per property")
	fs.String(LogLevelKey, "info", "Log level: debug, info, warn or error")
	fs.String(LogFormatKey, logging.Console, "Log format: console or json")
}

// Load resolves settings for the flags in fs, which must have been
// registered with AddFlags.
func Load(fs *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if path := v.GetString(ConfigFileKey); path != "" {
		v.SetConfigFile(os.ExpandEnv(path))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Settings, error) {
	base := codec.Default()
	if err := base.Alphabet.UnmarshalText([]byte(v.GetString(AlphabetKey))); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", AlphabetKey, err)
	}
	if err := base.Padding.UnmarshalText([]byte(v.GetString(PaddingKey))); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", PaddingKey, err)
	}
	base.Iterations = v.GetInt(IterationsKey)
	base.MaxInputSize = v.GetInt(MaxInputSizeKey)
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid base configuration: %w", err)
	}

	s := &Settings{
		Base:        base,
		Seed:        v.GetUint64(SeedKey),
		Budget:      v.GetInt(BudgetKey),
		StreamLen:   v.GetInt(StreamLenKey),
		TrackMemory: v.GetBool(TrackMemoryKey),
		LogLevel:    v.GetString(LogLevelKey),
		LogFormat:   v.GetString(LogFormatKey),
	}
	if s.StreamLen < 1 {
		return nil, fmt.Errorf("%s must be positive, got %d", StreamLenKey, s.StreamLen)
	}
	return s, nil
}
