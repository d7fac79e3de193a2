package confs

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingDatabaseURL is returned when no connection string is configured.
var ErrMissingDatabaseURL = errors.New("DB_URL (or DATABASE_URL / MONGODB_URI) is required")

// Config holds every setting the server reads from the environment.
type Config struct {
	DatabaseURL string
	DBLogLevel  string
	Port        string

	CORSOrigins     []string
	RateLimitWindow time.Duration
	RateLimitMax    int

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	AITimeout     time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	// TrustedProxies may set X-Forwarded-For; empty means the socket
	// address identifies the client.
	TrustedProxies []string
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db_log_level", "warn")
	v.SetDefault("cors_origin", "http://localhost:5173")
	v.SetDefault("rate_limit_window", "60s")
	v.SetDefault("rate_limit_max", 120)
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("ai_timeout", "30s")
	v.SetDefault("kafka_topic", "vitals.readings")
}

// LoadConfig loads environment variables from a .env file if present
// and validates essential settings.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	_ = v.BindEnv("database_url", "DB_URL", "DATABASE_URL", "MONGODB_URI")

	cfg := &Config{
		DatabaseURL:     strings.TrimSpace(v.GetString("database_url")),
		DBLogLevel:      v.GetString("db_log_level"),
		Port:            v.GetString("port"),
		CORSOrigins:     splitList(v.GetString("cors_origin")),
		RateLimitWindow: seconds(v.GetString("rate_limit_window"), time.Minute),
		RateLimitMax:    v.GetInt("rate_limit_max"),
		OpenAIKey:       strings.TrimSpace(v.GetString("openai_api_key")),
		OpenAIModel:     v.GetString("openai_model"),
		OpenAIBaseURL:   strings.TrimSpace(v.GetString("openai_base_url")),
		AITimeout:       seconds(v.GetString("ai_timeout"), 30*time.Second),
		KafkaBrokers:    splitList(v.GetString("kafka_brokers")),
		KafkaTopic:      v.GetString("kafka_topic"),
		TrustedProxies:  splitList(v.GetString("trusted_proxies")),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 120
	}
	return cfg, nil
}

// seconds reads a duration such as "90s" or "2m"; a bare number counts
// seconds. Unparseable values and anything under a second yield def.
func seconds(raw string, def time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	d, err := time.ParseDuration(raw)
	if n, nerr := strconv.ParseFloat(raw, 64); nerr == nil {
		d, err = time.Duration(n*float64(time.Second)), nil
	}
	if err != nil || d < time.Second {
		return def
	}
	return d
}

// splitList turns a comma-separated value into trimmed, non-empty entries.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if s := strings.TrimRight(strings.TrimSpace(p), "/"); s != "" {
			out = append(out, s)
		}
	}
	return out
}
