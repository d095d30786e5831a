package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/poiesic/launchpad/provider"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LAUNCHPAD_POOL_SIZE.
const EnvPrefix = "LAUNCHPAD"

// DefaultPath returns the user configuration file location,
// ~/.config/launchpad/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".launchpad", "config.yaml")
	}
	return filepath.Join(home, ".config", "launchpad", "config.yaml")
}

// Load reads configuration from path and the environment.
// With an empty path, ./.launchpad/config.yaml and then DefaultPath are
// tried; finding neither yields the defaults. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(filepath.Join(".launchpad", "config.yaml")); err == nil {
			path = filepath.Join(".launchpad", "config.yaml")
		} else if _, err := os.Stat(DefaultPath()); err == nil {
			path = DefaultPath()
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("pool_size", defaults.PoolSize)
	v.SetDefault("load_timeout", defaults.LoadTimeout)
	v.SetDefault("telemetry.enabled", defaults.Telemetry.Enabled)
	v.SetDefault("telemetry.exporter", defaults.Telemetry.Exporter)
	v.SetDefault("telemetry.journal_path", defaults.Telemetry.JournalPath)
	v.SetDefault("telemetry.otlp_endpoint", defaults.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.sample_rate", defaults.Telemetry.SampleRate)
	v.SetDefault("telemetry.service_name", defaults.Telemetry.ServiceName)
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.DecodeHookFuncType(providerShorthandHook),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

var specType = reflect.TypeOf(provider.Spec{})

// providerShorthandHook decodes a bare string provider entry as a spec naming it.
func providerShorthandHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != specType || from.Kind() != reflect.String {
		return data, nil
	}
	name, ok := data.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, errors.New("provider entry must not be empty")
	}
	return map[string]any{"name": strings.TrimSpace(name)}, nil
}

// ExpandHome replaces a leading "~/" in path with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
