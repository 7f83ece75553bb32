package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=1h"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	ForceHTTPS bool          `env:"FORCE_HTTPS, default=false"`
	SecurePort string        `env:"SECURE_PORT, default=443"`

	Session  SessionConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Facebook FacebookConfig
}

type SessionConfig struct {
	// CookieName is the name of the session cookie handed to browsers.
	CookieName string `env:"SESSION_COOKIE_NAME, default=session-id"`
	// Backend selects the session store: "file" or "redis".
	Backend string        `env:"SESSION_BACKEND,   default=file"`
	Path    string        `env:"SESSION_FILE_PATH, default=./sessions"`
	TTL     time.Duration `env:"SESSION_TTL,       default=24h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=assignment_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type FacebookConfig struct {
	GraphURL string `env:"FACEBOOK_GRAPH_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
