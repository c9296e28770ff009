package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config is built once at process start and passed by parameter; core
// logic never reads the environment.
type Config struct {
	FinnhubToken   string        `envconfig:"FINNHUB_TOKEN" required:"true"`
	FinnhubBaseURL string        `envconfig:"FINNHUB_BASE_URL" default:"https://finnhub.io/api/v1"`
	FetchTimeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`

	SMTPServer     string        `envconfig:"SMTP_SERVER" default:"smtp.gmail.com"`
	SMTPPort       int           `envconfig:"SMTP_PORT" default:"587"`
	SenderEmail    string        `envconfig:"SENDER_EMAIL" required:"true"`
	SenderPassword string        `envconfig:"SENDER_PASSWORD" required:"true"`
	ReceiverEmail  string        `envconfig:"RECEIVER_EMAIL" required:"true"`
	SendTimeout    time.Duration `envconfig:"SEND_TIMEOUT" default:"30s"`

	OfferThreshold decimal.Decimal `envconfig:"OFFER_AMOUNT_THRESHOLD" default:"200000000"`

	// The market timezone decides which calendar day is "today"; the
	// trigger timezone only decides when the daily run fires.
	MarketTimezone  string `envconfig:"MARKET_TIMEZONE" default:"America/New_York"`
	TriggerTimezone string `envconfig:"TRIGGER_TIMEZONE" default:"Asia/Dubai"`
	RunAt           string `envconfig:"RUN_AT" default:"09:00"`

	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsAddr    string `envconfig:"METRICS_ADDR" default:"0.0.0.0:9090"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if _, err := time.LoadLocation(cfg.MarketTimezone); err != nil {
		return nil, fmt.Errorf("invalid MARKET_TIMEZONE %q: %w", cfg.MarketTimezone, err)
	}
	if _, err := time.LoadLocation(cfg.TriggerTimezone); err != nil {
		return nil, fmt.Errorf("invalid TRIGGER_TIMEZONE %q: %w", cfg.TriggerTimezone, err)
	}
	if _, _, err := ParseRunAt(cfg.RunAt); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) MarketLocation() *time.Location {
	loc, _ := time.LoadLocation(c.MarketTimezone)
	return loc
}

func (c *Config) TriggerLocation() *time.Location {
	loc, _ := time.LoadLocation(c.TriggerTimezone)
	return loc
}

// ParseRunAt parses a daily run time in "HH:MM" form.
func ParseRunAt(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid RUN_AT %q: want HH:MM", s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid RUN_AT hour %q", parts[0])
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid RUN_AT minute %q", parts[1])
	}

	return hour, minute, nil
}
