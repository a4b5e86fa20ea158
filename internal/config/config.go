package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"p24gate"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"p24gate"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Przelewy24 struct {
		MerchantID int    `envconfig:"P24_MERCHANT_ID" default:"0"`
		PosID      int    `envconfig:"P24_POS_ID" default:"0"`
		CRC        string `envconfig:"P24_CRC" default:""`
		Sandbox    bool   `envconfig:"P24_SANDBOX" default:"false"`
		// ReportURL is the public webhook URL the gateway posts its
		// payment notifications to.
		ReportURL string `envconfig:"P24_REPORT_URL" default:""`
	}

	Log struct {
		Enabled bool `envconfig:"LOG_ENABLED" default:"true"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
