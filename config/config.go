package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/beneficios/backoffice/auth"
	"github.com/beneficios/backoffice/caching/rd"
	"github.com/beneficios/backoffice/guard"
	"github.com/beneficios/backoffice/log"
	"github.com/beneficios/backoffice/session"
	"github.com/beneficios/backoffice/web"
)

const envPrefix = "BACKOFFICE"

type Config struct {
	Log     log.Config     `mapstructure:"log"`
	Web     web.Config     `mapstructure:"web"`
	Session session.Config `mapstructure:"session"`
	Guard   guard.Config   `mapstructure:"guard"`
	Auth    auth.Config    `mapstructure:"auth"`
	Redis   rd.Config      `mapstructure:"redis"`
}

// Load reads the TOML config file at path, with BACKOFFICE_* environment
// variables overriding file values. A missing file is not an error; every
// section carries its own defaults.
func Load(path string) (Config, error) {
	v, err := loadViper(path)
	if err != nil {
		return Config{}, err
	}
	var out Config
	if err := decode(v, &out); err != nil {
		return Config{}, err
	}
	return out, nil
}

// Watch re-reads the file on change and hands the freshly decoded config to
// onChange. Decode failures keep the previous config and are logged, never
// propagated into a running process.
func Watch(path string, logger *zap.Logger, onChange func(Config)) error {
	v, err := loadViper(path)
	if err != nil {
		return err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		var next Config
		if err := decode(v, &next); err != nil {
			logger.Warn("config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		logger.Info("config reloaded", zap.String("file", e.Name))
		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
	return nil
}

func loadViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return v, nil
}

func decode(v *viper.Viper, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(v.AllSettings())
}
