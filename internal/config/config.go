package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	BackendURL      string
	UpstreamTimeout time.Duration

	// Storage
	StorageDriver    string
	SQLitePath       string
	DatabaseDSN      string
	StorageNamespace string
	RunMigrations    bool

	// Events; empty disables publishing
	RabbitMQURL string

	CORSAllowOrigins []string

	SearchDebounce      time.Duration
	SearchLimitTests    int
	SearchLimitPackages int

	TokenCheckInterval    time.Duration
	TokenRefreshThreshold time.Duration

	LogLevel       string
	LogDevelopment bool
}

// DefaultShellOrigin is the UI shell's dev server, the only origin allowed
// when CORS_ALLOW_ORIGINS is unset.
const DefaultShellOrigin = "http://localhost:3000"

// Load reads the environment, after applying an optional .env file from the
// working directory. Variables already set win over the file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:            getenv("PORT", "8090"),
		BackendURL:      getenv("BACKEND_URL", "http://localhost:5000"),
		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),

		StorageDriver:    strings.ToLower(getenv("STORAGE_DRIVER", "sqlite")),
		SQLitePath:       getenv("SQLITE_PATH", "labcart.db"),
		DatabaseDSN:      getenv("DATABASE_DSN", ""),
		StorageNamespace: getenv("STORAGE_NAMESPACE", "default"),
		RunMigrations:    parseBool(getenv("RUN_MIGRATIONS", "true"), true),

		RabbitMQURL: getenv("RABBITMQ_URL", ""),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", DefaultShellOrigin)),

		SearchDebounce:      parseDuration(getenv("SEARCH_DEBOUNCE", "300ms"), 300*time.Millisecond),
		SearchLimitTests:    parseInt(getenv("SEARCH_LIMIT_TESTS", "5"), 5),
		SearchLimitPackages: parseInt(getenv("SEARCH_LIMIT_PACKAGES", "3"), 3),

		TokenCheckInterval:    parseDuration(getenv("TOKEN_CHECK_INTERVAL", "1m"), time.Minute),
		TokenRefreshThreshold: parseDuration(getenv("TOKEN_REFRESH_THRESHOLD", "2m"), 2*time.Minute),

		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogDevelopment: parseBool(getenv("LOG_DEVELOPMENT", "false"), false),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
