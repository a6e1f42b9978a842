package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces every environment override, e.g.
// NOTECRAFT_SERVER_PORT=9000 or NOTECRAFT_NOTE_TIMEZONE=America/New_York.
const EnvPrefix = "NOTECRAFT_"

// Service loads and validates configuration.
type Service interface {
	Load(ctx context.Context) (*Config, error)
}

type loader struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
}

// NewService creates a configuration service with validation support.
func NewService() Service {
	return &loader{
		koanf:     koanf.New("."),
		validator: validator.New(),
	}
}

// Load layers defaults, then environment variables, then unmarshals and
// validates the result.
func (l *loader) Load(_ context.Context) (*Config, error) {
	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}
	envProvider := env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			return strings.ReplaceAll(key, "_", "."), value
		},
	})
	if err := l.koanf.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	cfg := &Config{}
	decoderConfig := &mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	}
	unmarshalConf := koanf.UnmarshalConf{Tag: "koanf", DecoderConfig: decoderConfig}
	if err := l.koanf.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := l.validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *loader) validate(cfg *Config) error {
	if err := l.validator.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Note.Timezone); err != nil {
		return fmt.Errorf("invalid note timezone %q: %w", cfg.Note.Timezone, err)
	}
	return nil
}
