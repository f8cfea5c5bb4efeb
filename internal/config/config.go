package config

import (
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Listen     string      `koanf:"listen"`
	Spec       string      `koanf:"spec"`
	HiddenTags []string    `koanf:"hidden-tags"`
	Relay      RelayConfig `koanf:"relay"`
}

type RelayConfig struct {
	AllowedHosts []string      `koanf:"allowed-hosts"`
	Timeout      time.Duration `koanf:"timeout"`
}

// defaults feed koanf before the config file and flags are layered on top.
var defaults = map[string]any{
	"listen":              ":8787",
	"relay.allowed-hosts": []string{"api.dingtalk.com", "oapi.dingtalk.com"},
	"relay.timeout":       "30s",
}

// BindCommonFlags binds the flags shared by every command.
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: deckhand.yaml)")
	flags.StringP("spec", "s", "", "OpenAPI document path or URL")
	flags.StringP("listen", "l", "", "Listen address for the console server")
	flags.StringSlice("hidden-tags", nil, "Tags hidden from the catalog")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat("deckhand.yaml"); err == nil {
			configFile = "deckhand.yaml"
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	if v := getString("spec"); v != "" {
		m["spec"] = v
	}
	if v := getString("listen"); v != "" {
		m["listen"] = v
	}
	if v := getStringSlice("hidden-tags"); len(v) > 0 {
		m["hidden-tags"] = v
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file or URL is required")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.Relay.Timeout <= 0 {
		return fmt.Errorf("relay timeout must be positive")
	}
	if len(c.Relay.AllowedHosts) == 0 {
		return fmt.Errorf("relay allow-list must not be empty")
	}
	return nil
}
