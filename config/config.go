package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"5000"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// ✅ Database
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"vibra_events"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"vibra.db"`

	JWTAccessSecret    string `env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret   string `env:"JWT_REFRESH_SECRET"`
	JWTAccessTTLHours  int    `env:"JWT_ACCESS_TTL_HOURS" envDefault:"168"`
	JWTRefreshTTLHours int    `env:"JWT_REFRESH_TTL_HOURS" envDefault:"720"`

	// Comma separated list of allowed browser origins.
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	// ✅ Redis Config (empty addr disables redis)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// ✅ Kafka Config (empty brokers disables kafka)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"event-activity"`
	KafkaGroupID string   `env:"KAFKA_GROUP_ID" envDefault:"vibra-notifications"`

	RateLimitPerMinute int64 `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`

	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"1h"`
	ReminderWindow   time.Duration `env:"REMINDER_WINDOW" envDefault:"24h"`

	// ✅ Seeded administrator
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@eventapp.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"Admin@123"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"System Administrator"`
}

// Load reads .env (when present) and environment variables and returns a Config object
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTAccessSecret == "" || c.JWTRefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTAccessTTLHours <= 0 || c.JWTRefreshTTLHours <= 0 {
		return errors.New("JWT TTLs must be positive")
	}
	if c.ReminderInterval <= 0 || c.ReminderWindow <= 0 {
		return errors.New("REMINDER_INTERVAL and REMINDER_WINDOW must be positive")
	}
	return nil
}

// AllowedOrigins splits CLIENT_URL into the CORS allow list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.ClientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }
