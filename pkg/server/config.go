package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend names accepted by Config.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreCache  = "cache"
	StoreMongo  = "mongo"
)

// Config is the server configuration, read from BRANDQR_* environment
// variables. CLI flags override individual fields after loading.
type Config struct {
	Addr string `env:"BRANDQR_ADDR" envDefault:":8080"`
	// BaseURL is the public origin used in share links. Empty derives it
	// from each request.
	BaseURL string `env:"BRANDQR_BASE_URL"`

	Cache    string `env:"BRANDQR_CACHE" envDefault:"file"`
	CacheDir string `env:"BRANDQR_CACHE_DIR"`
	RedisURL string `env:"BRANDQR_REDIS_URL"`

	ShareStore    string        `env:"BRANDQR_SHARE_STORE" envDefault:"memory"`
	ShareDir      string        `env:"BRANDQR_SHARE_DIR"`
	ShareTTL      time.Duration `env:"BRANDQR_SHARE_TTL" envDefault:"720h"`
	ShareTemplate string        `env:"BRANDQR_SHARE_TEMPLATE"`
	MongoURI      string        `env:"BRANDQR_MONGO_URI"`
	MongoDB       string        `env:"BRANDQR_MONGO_DB" envDefault:"brandqr"`

	// MaxLogoBytes bounds request bodies, which carry logos as data URLs.
	MaxLogoBytes int64 `env:"BRANDQR_MAX_LOGO_BYTES" envDefault:"2097152"`

	RequestTimeout time.Duration `env:"BRANDQR_REQUEST_TIMEOUT" envDefault:"30s"`
}

// LoadConfig loads .env files (missing files are ignored) and parses the
// environment.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks backend names and their required settings.
func (c Config) Validate() error {
	switch c.Cache {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("BRANDQR_CACHE=redis requires BRANDQR_REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want file, redis or none)", c.Cache)
	}

	switch c.ShareStore {
	case StoreMemory, StoreFile:
	case StoreCache:
		if c.Cache == CacheNone {
			return fmt.Errorf("BRANDQR_SHARE_STORE=cache needs a cache backend")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("BRANDQR_SHARE_STORE=mongo requires BRANDQR_MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown share store %q (want memory, file, cache or mongo)", c.ShareStore)
	}

	if c.ShareTTL <= 0 {
		return fmt.Errorf("share TTL must be positive, got %v", c.ShareTTL)
	}
	if c.MaxLogoBytes <= 0 {
		return fmt.Errorf("max logo bytes must be positive, got %d", c.MaxLogoBytes)
	}
	return nil
}

// maxBodyBytes allows for the base64 growth of a logo plus the other fields.
func (c Config) maxBodyBytes() int64 {
	return c.MaxLogoBytes*4/3 + 64<<10
}
