package config

import (
	"fmt"
	"time"

	"github.com/distordia/nexgo/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Ledger    LedgerConfig
		Board     BoardConfig
		Broadcast BroadcastConfig
		Position  PositionConfig
		GeoIP     GeoIPConfig
		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		HTTP      HTTPConfig
		Auth      Auth

		LogLevel string `env:"LOG_LEVEL" default:"INFO"`
	}

	// LedgerConfig points at the signature-chain node the service
	// reads and writes through. Session and Pin authenticate the
	// identity every mutating call acts on behalf of.
	LedgerConfig struct {
		NodeURL string `env:"LEDGER_NODE_URL" default:"http://localhost:8080"`
		Session string `env:"LEDGER_SESSION"`
		Pin     string `env:"LEDGER_PIN"`
		Genesis string `env:"LEDGER_GENESIS"`

		CallTimeout     time.Duration `env:"LEDGER_CALL_TIMEOUT" default:"15s"`
		ListingLimit    int           `env:"LEDGER_LISTING_LIMIT" default:"100"`
		RatingScanLimit int           `env:"LEDGER_RATING_SCAN_LIMIT" default:"500"`
	}

	BoardConfig struct {
		ListingRefresh time.Duration `env:"BOARD_LISTING_REFRESH" default:"10s"`
		RatingRefresh  time.Duration `env:"BOARD_RATING_REFRESH" default:"30s"`
	}

	BroadcastConfig struct {
		Interval time.Duration `env:"BROADCAST_INTERVAL" default:"30s"`
	}

	// PositionConfig pins the vehicle position statically. When both
	// coordinates are zero the IP lookup fallback is used instead.
	PositionConfig struct {
		StaticLatitude  float64 `env:"POSITION_STATIC_LATITUDE"`
		StaticLongitude float64 `env:"POSITION_STATIC_LONGITUDE"`
	}

	GeoIPConfig struct {
		Endpoint string `env:"GEOIP_ENDPOINT" default:"https://ipapi.co/json/"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"nexgo_user"`
		Password string `env:"DATABASE_PASSWORD" default:"nexgo_pass"`
		Database string `env:"DATABASE_DATABASE" default:"nexgo_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"true"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	HTTPConfig struct {
		Port string `env:"HTTP_PORT" default:"3000"`
	}

	Auth struct {
		OperatorSecret string        `env:"AUTH_OPERATOR_SECRET" default:"changeme"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

// HasStaticPosition reports whether the operator pinned a position
func (c PositionConfig) HasStaticPosition() bool {
	return c.StaticLatitude != 0 || c.StaticLongitude != 0
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
