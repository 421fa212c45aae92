package config

import (
	"fmt"
	"time"

	"github.com/de-tools/time-atlas/pkg/services/earnings"
	"github.com/spf13/viper"
)

type Config struct {
	Addr            string        `mapstructure:"addr"`
	DBPath          string        `mapstructure:"db_path"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	BillablePolicy  string        `mapstructure:"billable_policy"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoadConfig reads the application config file, filling defaults for any
// unset key. Environment variables prefixed TIME_ATLAS_ override the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "time-atlas.db")
	v.SetDefault("cache_ttl", "5m")
	v.SetDefault("billable_policy", string(earnings.PolicyRespectFlag))
	v.SetDefault("shutdown_timeout", "10s")

	v.SetEnvPrefix("TIME_ATLAS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch earnings.Policy(cfg.BillablePolicy) {
	case earnings.PolicyRespectFlag, earnings.PolicyAllBillable:
	default:
		return nil, fmt.Errorf("unknown billable policy %q", cfg.BillablePolicy)
	}
	return &cfg, nil
}

func (c *Config) Policy() earnings.Policy {
	return earnings.Policy(c.BillablePolicy)
}
