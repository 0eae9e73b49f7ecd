package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the service configuration, read from the environment after an
// optional .env file.
type Config struct {
	Port           string   `env:"PORT" envDefault:"5200"`
	DatabaseDriver string   `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	ScorerHeader   string   `env:"SCORER_HEADER" envDefault:"X-Scorer-ID"`

	MatchSyncURL      string        `env:"MATCH_SYNC_URL"`
	MatchSyncToken    string        `env:"MATCH_SYNC_TOKEN"`
	MatchSyncInterval time.Duration `env:"MATCH_SYNC_INTERVAL" envDefault:"1m"`

	ArchiveInterval    time.Duration `env:"ARCHIVE_INTERVAL" envDefault:"5m"`
	ArchiveDir         string        `env:"ARCHIVE_DIR" envDefault:"data"`
	StreamPollInterval time.Duration `env:"STREAM_POLL_INTERVAL" envDefault:"2s"`

	R2 R2Config
}

// R2Config holds the Cloudflare R2 credentials used for session archives.
type R2Config struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"R2_BUCKET_NAME"`
	CDNBaseURL      string `env:"CDN_BASE_URL"`
}

// Enabled reports whether enough is set to talk to R2.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.AccessKeySecret != "" && r.Bucket != ""
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable not set")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (want postgres or sqlite)", c.DatabaseDriver)
	}
	if c.MatchSyncURL != "" && c.MatchSyncToken == "" {
		return fmt.Errorf("MATCH_SYNC_TOKEN is required when MATCH_SYNC_URL is set")
	}
	if c.MatchSyncInterval <= 0 || c.ArchiveInterval <= 0 || c.StreamPollInterval <= 0 {
		return fmt.Errorf("intervals must be positive")
	}
	return nil
}

// SQLiteDSN is the file used when DATABASE_DRIVER=sqlite and no
// DATABASE_URL is given.
func (c Config) SQLiteDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "live-scoring.db"
}
