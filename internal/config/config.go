package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docflow/docflow/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Stale      StaleConfig      `validate:"required"`
	Scans      ScanStorageConfig
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

// StaleConfig controls the stale document protocol. Threshold is how long a
// document may sit in one status before the sweep flags it; the eligibility
// threshold is the notification count at which operator resolution opens up.
type StaleConfig struct {
	SweepInterval        time.Duration `mapstructure:"sweep_interval"`
	Threshold            time.Duration `mapstructure:"threshold"`
	EligibilityThreshold int           `mapstructure:"eligibility_threshold"`
}

type ScanStorageConfig struct {
	Enabled   bool
	Region    string
	Bucket    string
	KeyPrefix string `mapstructure:"key_prefix"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/docflow")

	v.SetEnvPrefix("DOCFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("stale.sweep_interval", "1h")
	v.SetDefault("stale.threshold", "72h")
	v.SetDefault("stale.eligibility_threshold", 3)

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

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Stale.SweepInterval <= 0 {
		return fmt.Errorf("stale.sweep_interval must be positive")
	}
	if c.Stale.Threshold <= 0 {
		return fmt.Errorf("stale.threshold must be positive")
	}
	if c.Stale.EligibilityThreshold < 1 {
		return fmt.Errorf("stale.eligibility_threshold must be at least 1")
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Stale: StaleConfig{
			SweepInterval:        time.Hour,
			Threshold:            72 * time.Hour,
			EligibilityThreshold: 3,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
