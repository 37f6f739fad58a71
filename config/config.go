package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Host     string     `env:"HOST" envDefault:"127.0.0.1"`
	Port     string     `env:"PORT" envDefault:"3000"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	DB         DBConfig         `envPrefix:"DB_"`
	Aggregator AggregatorConfig `envPrefix:"PLAYFIVERS_"`
	Sync       SyncConfig       `envPrefix:"SYNC_"`

	MinWithdrawal decimal.Decimal `env:"MIN_WITHDRAWAL" envDefault:"20.00"`
	DepositTTL    time.Duration   `env:"DEPOSIT_TTL" envDefault:"30m"`
}

type DBConfig struct {
	DSN         string `env:"DSN"`
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        string `env:"PORT" envDefault:"5432"`
	User        string `env:"USER"`
	Password    string `env:"PASSWORD"`
	Name        string `env:"NAME"`
	SSLMode     string `env:"SSLMODE" envDefault:"disable"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`
}

// ConnString prefers DB_DSN and falls back to the discrete DB_* variables.
func (c DBConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

type AggregatorConfig struct {
	// Provider is the api_settings row (and registry entry) used for the aggregator.
	Provider string        `env:"PROVIDER" envDefault:"playfivers"`
	BaseURL  string        `env:"BASE_URL" envDefault:"https://api.playfivers.com"`
	HomeURL  string        `env:"HOME_URL"`
	Lang     string        `env:"LANG" envDefault:"pt"`
	ProxyURL string        `env:"PROXY_URL"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type SyncConfig struct {
	Interval    time.Duration `env:"INTERVAL" envDefault:"6h"`
	PageDelay   time.Duration `env:"PAGE_DELAY" envDefault:"100ms"`
	Concurrency int           `env:"CONCURRENCY" envDefault:"4"`
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using process environment")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.AdminAPIKey == "" {
		errs = append(errs, errors.New("ADMIN_API_KEY is required"))
	}
	if c.DB.DSN == "" && c.DB.Name == "" {
		errs = append(errs, errors.New("DB_DSN or DB_NAME is required"))
	}
	if _, err := url.ParseRequestURI(c.Aggregator.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("PLAYFIVERS_BASE_URL: %w", err))
	}
	if c.Aggregator.ProxyURL != "" {
		if _, err := url.Parse(c.Aggregator.ProxyURL); err != nil {
			errs = append(errs, fmt.Errorf("PLAYFIVERS_PROXY_URL: %w", err))
		}
	}
	if c.Aggregator.Timeout <= 0 {
		errs = append(errs, errors.New("PLAYFIVERS_TIMEOUT must be positive"))
	}
	if c.Sync.Concurrency < 1 {
		errs = append(errs, errors.New("SYNC_CONCURRENCY must be at least 1"))
	}
	if c.Sync.PageDelay < 0 {
		errs = append(errs, errors.New("SYNC_PAGE_DELAY must not be negative"))
	}
	if c.MinWithdrawal.IsNegative() {
		errs = append(errs, errors.New("MIN_WITHDRAWAL must not be negative"))
	}

	return errors.Join(errs...)
}
