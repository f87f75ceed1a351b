package main

import (
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
)

type config struct {
	Address        string
	LogLevel       hclog.Level
	ScanTimeout    time.Duration
	ConnectTimeout time.Duration
}

// loadConfig reads toio.yaml from the working directory if present,
// TOIO_* environment variables override it
func loadConfig() (config, error) {
	v := viper.New()

	v.SetDefault("address", "")
	v.SetDefault("logLevel", "info")
	v.SetDefault("scanTimeout", "60s")
	v.SetDefault("connectTimeout", "60s")

	v.SetConfigName("toio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("toio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, err
		}
	}

	level := hclog.LevelFromString(v.GetString("logLevel"))
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	return config{
		Address:        v.GetString("address"),
		LogLevel:       level,
		ScanTimeout:    v.GetDuration("scanTimeout"),
		ConnectTimeout: v.GetDuration("connectTimeout"),
	}, nil
}
