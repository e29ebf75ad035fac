// Package config loads service configuration from environment variables
// (prefix RTVOX_) with a .env fallback in local mode.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	ierr "github.com/rtvox/rtvox-billing/internal/errors"
	"github.com/rtvox/rtvox-billing/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Refund     RefundConfig     `mapstructure:"refund"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level          types.LogLevel `mapstructure:"level"`
	FluentdEnabled bool           `mapstructure:"fluentd_enabled"`
	FluentdHost    string         `mapstructure:"fluentd_host"`
	FluentdPort    int            `mapstructure:"fluentd_port"`
}

type PostgresConfig struct {
	// Enabled false runs the service without order storage; membership
	// status then resolves to db_disabled.
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the postgres connection string for gorm.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type StripeConfig struct {
	// SecretKey empty disables provider reconciliation; membership status
	// then relies on the local time window only.
	SecretKey string `mapstructure:"secret_key"`
}

// RefundConfig carries the tunable refund policy knobs. Values are
// sanitized into a refund.PolicyConfig at call time; out-of-domain values
// fall back to the documented defaults there, never here.
type RefundConfig struct {
	MonthlyCycleDays        int     `mapstructure:"monthly_cycle_days"`
	YearlyCycleMonths       int     `mapstructure:"yearly_cycle_months"`
	FeeRate                 float64 `mapstructure:"fee_rate"`
	FeeFixedCents           int64   `mapstructure:"fee_fixed_cents"`
	NonRefundableBaseTokens int64   `mapstructure:"non_refundable_base_tokens"`
}

// NewConfig loads configuration from the environment. In local mode a .env
// file is applied first, best effort.
func NewConfig() (*Configuration, error) {
	v := viper.New()
	v.SetEnvPrefix("RTVOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if types.RunMode(v.GetString("deployment.mode")) == types.RunModeLocal {
		// Missing .env is fine; env vars win either way.
		_ = godotenv.Load()
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrValidation)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.RunModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("logging.fluentd_enabled", false)
	v.SetDefault("logging.fluentd_host", "")
	v.SetDefault("logging.fluentd_port", 0)
	v.SetDefault("postgres.enabled", true)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "rtvox")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "rtvox")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("refund.monthly_cycle_days", 30)
	v.SetDefault("refund.yearly_cycle_months", 12)
	v.SetDefault("refund.fee_rate", 0.05)
	v.SetDefault("refund.fee_fixed_cents", 0)
	v.SetDefault("refund.non_refundable_base_tokens", 500)
}

func (c *Configuration) Validate() error {
	if c.Server.Address == "" {
		return ierr.NewError("server address is required").
			WithHint("Set RTVOX_SERVER_ADDRESS").
			Mark(ierr.ErrValidation)
	}
	if c.Postgres.Enabled {
		if c.Postgres.Host == "" || c.Postgres.DBName == "" {
			return ierr.NewError("incomplete postgres configuration").
				WithHint("Set RTVOX_POSTGRES_HOST and RTVOX_POSTGRES_DBNAME, or disable postgres").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// GetDefaultConfig returns a configuration suitable for tests and scripts:
// local mode, storage and provider disabled, default refund policy.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.RunModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres:   PostgresConfig{Enabled: false},
		Refund: RefundConfig{
			MonthlyCycleDays:        30,
			YearlyCycleMonths:       12,
			FeeRate:                 0.05,
			FeeFixedCents:           0,
			NonRefundableBaseTokens: 500,
		},
	}
}
