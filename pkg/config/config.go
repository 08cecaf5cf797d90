// Package config loads the parameters of the command line tools from an
// optional YAML file and CM_ prefixed environment variables.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/response"
	"github.com/tigerbot-team/tigerbot/contact-modelling/pkg/skin"
)

const EnvPrefix = "CM"

type Config struct {
	Skin     skin.Attributes   `mapstructure:"skin"`
	Gaussian response.Gaussian `mapstructure:"gaussian"`
	Loads    []response.Load   `mapstructure:"loads"`
}

func Default() *Config {
	return &Config{
		Skin:     skin.DefaultAttributes(),
		Gaussian: response.DefaultGaussian(),
		Loads:    response.DefaultLoads(),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Env overrides are only picked up by Unmarshal for keys viper knows about.
	d := Default()
	v.SetDefault("skin.h", d.Skin.H)
	v.SetDefault("skin.E", d.Skin.E)
	v.SetDefault("skin.nu", d.Skin.Nu)
	// The taxel size keys have no viper default so IsSet tells whether the
	// file or environment chose one.
	_ = v.BindEnv("skin.taxelArea")
	_ = v.BindEnv("skin.taxelRadius")
	v.SetDefault("gaussian.x0", d.Gaussian.X0)
	v.SetDefault("gaussian.y0", d.Gaussian.Y0)
	v.SetDefault("gaussian.sigmaX", d.Gaussian.SigmaX)
	v.SetDefault("gaussian.sigmaY", d.Gaussian.SigmaY)
	v.SetDefault("gaussian.amplitude", d.Gaussian.Amplitude)
	return v
}

// Load reads path (skipped when empty) on top of the defaults. The skin
// attributes of the result are validated.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
	}

	cfg := Default()
	cfg.Loads = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if cfg.Loads == nil {
		cfg.Loads = response.DefaultLoads()
	}
	// A radius on its own replaces the default area, which would win otherwise.
	if v.IsSet("skin.taxelRadius") && !v.IsSet("skin.taxelArea") {
		cfg.Skin.TaxelArea = 0
	}
	if err := cfg.Skin.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
