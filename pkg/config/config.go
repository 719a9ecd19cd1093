package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Telegram struct {
		BotToken string `env:"TELEGRAM_BOT_TOKEN" env-required:"true"`
	}
	API struct {
		BaseURL string `env:"STORIES_API_BASE_URL" env-required:"true"`
	}
	Viewer struct {
		AutoAdvance time.Duration `env:"VIEWER_AUTO_ADVANCE" env-default:"15s"`
		IdleTimeout time.Duration `env:"VIEWER_IDLE_TIMEOUT" env-default:"10m"`
		NoticeTTL   time.Duration `env:"VIEWER_NOTICE_TTL" env-default:"5s"`
	}
	Session struct {
		MaxAge time.Duration `env:"SESSION_MAX_AGE" env-default:"720h"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"5"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"5s"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"5"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		// A missing .env is fine, the real environment still applies.
		_ = godotenv.Load()

		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// GetDSN returns the lib/pq connection string used by goose.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

// GetURL returns the postgres:// url used by pgxpool.
func (c *Config) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}
