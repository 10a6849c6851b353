// Package config loads resolver configuration from the environment using
// koanf, validated with go-playground/validator.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	Log    LoggingConfig `koanf:"log" validate:"required"`
	Listen ListenConfig  `koanf:"listen" validate:"required"`
}

type LoggingConfig struct {
	// Level defines the logging level: "debug", "info", "warn", or "error".
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

type ListenConfig struct {
	// Port is the network port the resolver's client-facing UDP socket
	// binds to.
	// default: 53
	Port int `koanf:"port" validate:"required,gte=1,lte=65535"`

	// RootHints is the ordered list of IPv4 literals seeding the initial
	// resolution frontier.
	// default: the 13 IANA root servers
	RootHints []string `koanf:"roots" validate:"required,dive,ipv4"`

	// HopTimeoutSeconds bounds each individual upstream exchange.
	// default: 10
	HopTimeoutSeconds int `koanf:"hop_timeout_seconds" validate:"required,gte=1"`

	// QueryBudgetSeconds bounds the wall-clock time spent resolving one
	// client query across every referral hop.
	// default: 30
	QueryBudgetSeconds int `koanf:"query_budget_seconds" validate:"required,gte=1"`

	// MaxReferrals bounds how many referral hops one client query may
	// take before the resolver gives up.
	// default: 16
	MaxReferrals int `koanf:"max_referrals" validate:"required,gte=1,lte=64"`
}

// DEFAULT_APP_CONFIG defines the default application configuration.
var DEFAULT_APP_CONFIG = AppConfig{
	Env: "prod",
	Log: LoggingConfig{
		Level: "info",
	},
	Listen: ListenConfig{
		Port: 53,
		RootHints: []string{
			"198.41.0.4", "199.9.14.201", "192.33.4.12", "199.7.91.13",
			"192.203.230.10", "192.5.5.241", "192.112.36.4", "198.97.190.53",
			"192.36.148.17", "192.58.128.30", "193.0.14.129", "199.7.83.42",
			"202.12.27.33",
		},
		HopTimeoutSeconds:  10,
		QueryBudgetSeconds: 30,
		MaxReferrals:       16,
	},
}

// envLoader loads environment variables prefixed "DNS_", lowercasing and
// mapping underscores to koanf path separators so e.g. DNS_LISTEN_PORT
// resolves to listen.port. Comma- or space-separated values become slices.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, "DNS_")), "_", ".")
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG into k using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// Load parses environment variables and returns a validated AppConfig.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
