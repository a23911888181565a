package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress     string        `mapstructure:"SERVER_ADDRESS" validate:"required"`
	PostgresConn      string        `mapstructure:"POSTGRES_CONN"`
	PostgresUser      string        `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass      string        `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost      string        `mapstructure:"POSTGRES_HOST"`
	PostgresPort      string        `mapstructure:"POSTGRES_PORT"`
	PostgresDB        string        `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL      string        `mapstructure:"MIGRATION_URL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogFormat         string        `mapstructure:"LOG_FORMAT" validate:"oneof=console json"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	Timezone          string        `mapstructure:"TIMEZONE" validate:"required"`
	DefaultPageSize   int           `mapstructure:"DEFAULT_PAGE_SIZE" validate:"min=1,max=200"`
	CPVDictionaryPath string        `mapstructure:"CPV_DICTIONARY_PATH"`
	SlowQueryMS       int           `mapstructure:"SLOW_QUERY_MS" validate:"min=0"`
}

var defaults = map[string]interface{}{
	"SERVER_ADDRESS":      "0.0.0.0:8080",
	"POSTGRES_CONN":       "",
	"POSTGRES_USERNAME":   "",
	"POSTGRES_PASSWORD":   "",
	"POSTGRES_HOST":       "",
	"POSTGRES_PORT":       "5432",
	"POSTGRES_DATABASE":   "",
	"MIGRATION_URL":       "file://migrations",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "console",
	"REQUEST_TIMEOUT":     "5s",
	"TIMEZONE":            "Europe/Madrid",
	"DEFAULT_PAGE_SIZE":   100,
	"CPV_DICTIONARY_PATH": "",
	"SLOW_QUERY_MS":       200,
}

// LoadConfig загружает конфигурацию из файла app.env и переменных окружения
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err = validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	if _, err = cfg.Location(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Location возвращает часовой пояс, в котором считается текущая дата
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlowQueryThreshold возвращает порог медленного запроса
func (c Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}
