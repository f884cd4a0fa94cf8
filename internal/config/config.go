package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/tracegate/tracegate/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Cache      CacheConfig
	Sentry     SentryConfig
	Billing    BillingConfig `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled bool
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64
}

// BillingConfig holds the subscription lifecycle and quota policy knobs.
type BillingConfig struct {
	// TrialPeriodDays is the length of a newly started trial.
	TrialPeriodDays int `validate:"gte=0"`
	// TrialGracePeriodDays is how long a lapsed trial without a payment
	// method survives before the sweep demotes it to expired.
	TrialGracePeriodDays int `validate:"gte=0"`
	// SubscriptionPeriodDays is the billing cycle applied when a trial
	// converts to active; renewals extend it upstream.
	SubscriptionPeriodDays int `validate:"gt=0"`
	// FreeTierLimit is the per-resource ceiling applied to tenants with
	// no trialing or active subscription.
	FreeTierLimit int64 `validate:"gt=0"`
	// SweepBatchSize bounds how many tenants a single sweep batch loads.
	SweepBatchSize int `validate:"gt=0"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tracegate")

	v.SetEnvPrefix("TRACEGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("cache.enabled", true)
	v.SetDefault("billing.trialperioddays", 14)
	v.SetDefault("billing.trialgraceperioddays", 0)
	v.SetDefault("billing.subscriptionperioddays", 30)
	v.SetDefault("billing.freetierlimit", 100)
	v.SetDefault("billing.sweepbatchsize", 100)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests. This is useful for running scripts or other non-web
// applications without a config file.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Cache:      CacheConfig{Enabled: true},
		Billing: BillingConfig{
			TrialPeriodDays:        14,
			TrialGracePeriodDays:   0,
			SubscriptionPeriodDays: 30,
			FreeTierLimit:          100,
			SweepBatchSize:         100,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User, c.Password, c.DBName, c.Host, c.Port, c.SSLMode,
	)
}
