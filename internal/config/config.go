package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton so init-time consumers can reach the loaded config.
var globalConfig *Config

// Config holds all environment backed configuration for analysis-api.
type Config struct {
	// HTTP Server
	HTTPPort    int `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9091"`

	// MySQL. Either DATABASE_URL or the discrete DB_* variables must be set.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBDatabase  string `env:"DB_DATABASE"`
	DBPort      int    `env:"DB_PORT" envDefault:"3306"`
	DBMaxIdle   int    `env:"DB_POOL_SIZE" envDefault:"5"`
	DBMaxOpen   int    `env:"DB_MAX_OPEN" envDefault:"15"`

	// Upstream LLM
	LLMAPIKey      string        `env:"LLM_API_KEY"`
	LLMBaseURL     string        `env:"LLM_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"ep-default"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.2"`
	LLMMaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"512"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	// Per-sport analysis prompt overrides. A file path wins over literal text.
	FootballPromptFile   string `env:"ANALYSIS_PROMPT_FOOTBALL_FILE"`
	FootballPromptText   string `env:"ANALYSIS_PROMPT_FOOTBALL_TEXT"`
	BasketballPromptFile string `env:"ANALYSIS_PROMPT_BASKETBALL_FILE"`
	BasketballPromptText string `env:"ANALYSIS_PROMPT_BASKETBALL_TEXT"`

	// Exchange artifact sink
	ExchangeLogDir string `env:"EXCHANGE_LOG_DIR" envDefault:"exchange-log"`

	// Document fetch
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"20s"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"analysis-api"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"matchpulse"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := cfg.DSN(); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	globalConfig = cfg
	return cfg, nil
}

// GetGlobal returns the loaded config instance.
func GetGlobal() *Config {
	return globalConfig
}

// DSN resolves the MySQL driver DSN from DATABASE_URL or the discrete DB_*
// variables. The discrete form reports every missing variable at once.
func (c *Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		if strings.HasPrefix(c.DatabaseURL, "mysql://") {
			return dsnFromURL(c.DatabaseURL)
		}
		return c.DatabaseURL, nil
	}

	missing := make([]string, 0, 4)
	for name, value := range map[string]string{
		"DB_HOST":     c.DBHost,
		"DB_USER":     c.DBUser,
		"DB_PASSWORD": c.DBPassword,
		"DB_DATABASE": c.DBDatabase,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf(
			"missing env for MySQL: %s. Set DATABASE_URL or DB_HOST/DB_USER/DB_PASSWORD/DB_DATABASE",
			strings.Join(missing, ", "),
		)
	}

	return buildDSN(c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBDatabase), nil
}

// AdminDSN returns a DSN against the mysql system database, used to create
// the application database when it does not exist yet.
func (c *Config) AdminDSN() (string, error) {
	dsn, err := c.DSN()
	if err != nil {
		return "", err
	}
	name := DatabaseName(dsn)
	if name == "" {
		return dsn, nil
	}
	return strings.Replace(dsn, "/"+name, "/mysql", 1), nil
}

// DatabaseName extracts the schema name from a MySQL driver DSN.
func DatabaseName(dsn string) string {
	idx := strings.LastIndex(dsn, "/")
	if idx < 0 {
		return ""
	}
	name := dsn[idx+1:]
	if q := strings.Index(name, "?"); q >= 0 {
		name = name[:q]
	}
	return name
}

func dsnFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	password, _ := u.User.Password()
	host := u.Hostname()
	port := 3306
	if p := u.Port(); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			port = parsed
		}
	}
	name := strings.TrimPrefix(u.Path, "/")
	if host == "" || name == "" {
		return "", fmt.Errorf("invalid DATABASE_URL: host and database are required")
	}
	return buildDSN(u.User.Username(), password, host, port, name), nil
}

func buildDSN(user, password, host string, port int, database string) string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, password, host, port, database,
	)
}
