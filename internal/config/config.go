package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa toda la configuración del servicio. Valores desde
// meditrack.yaml (opcional) con overrides por env MEDITRACK_*.
type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	// Storage local (el equivalente durable del schedule/history locales).
	// driver: memory | sqlite | postgres
	Storage struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`  // postgres
		Path   string `mapstructure:"path"` // sqlite
	} `mapstructure:"storage"`

	// Fuente remota (Google Sheets). Sin credenciales => modo local-only.
	Sheets struct {
		SpreadsheetID string `mapstructure:"spreadsheet_id"`
		APIKey        string `mapstructure:"api_key"`
		ScheduleRange string `mapstructure:"schedule_range"`
		HistoryRange  string `mapstructure:"history_range"`
	} `mapstructure:"sheets"`

	// Push opcional en activación/resolución de alarmas.
	Pushover struct {
		Token string `mapstructure:"token"`
		User  string `mapstructure:"user"`
	} `mapstructure:"pushover"`

	Alarm struct {
		ResponseTimeout time.Duration `mapstructure:"response_timeout"`
		RetryDelay      time.Duration `mapstructure:"retry_delay"`
	} `mapstructure:"alarm"`

	History struct {
		LocalCap int `mapstructure:"local_cap"`
	} `mapstructure:"history"`
}

// Load lee la configuración. path vacío => busca meditrack.yaml en el
// directorio actual; si no existe, quedan los defaults + env.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.driver", "memory")
	// Claves sin valor por defecto igual se declaran: viper solo
	// considera env vars de claves conocidas al hacer Unmarshal.
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.path", "")
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.api_key", "")
	v.SetDefault("sheets.schedule_range", "Schedule!A2:G1000")
	v.SetDefault("sheets.history_range", "History!A2:E1000")
	v.SetDefault("pushover.token", "")
	v.SetDefault("pushover.user", "")
	v.SetDefault("alarm.response_timeout", 180*time.Second)
	v.SetDefault("alarm.retry_delay", 300*time.Second)
	v.SetDefault("history.local_cap", 500)

	v.SetEnvPrefix("MEDITRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("meditrack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// Sin archivo es válido: defaults + env.
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.History.LocalCap <= 0 {
		cfg.History.LocalCap = 500
	}
	if cfg.Alarm.ResponseTimeout <= 0 {
		cfg.Alarm.ResponseTimeout = 180 * time.Second
	}
	if cfg.Alarm.RetryDelay <= 0 {
		cfg.Alarm.RetryDelay = 300 * time.Second
	}

	return cfg, nil
}
