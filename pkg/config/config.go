package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Checkout     CheckoutConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"MINISHOP_APP_ENV" required:"true"`
	Port           string   `envconfig:"MINISHOP_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"MINISHOP_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"MINISHOP_LOG_WARN_STACK" default:"false"`
	LogFormat      string   `envconfig:"MINISHOP_LOG_FORMAT" default:"json"`
	AllowedOrigins []string `envconfig:"MINISHOP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MINISHOP_DB_DSN"`
	Driver string `envconfig:"MINISHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MINISHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"MINISHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MINISHOP_DB_USER"`
	LegacyPassword string `envconfig:"MINISHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"MINISHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"MINISHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MINISHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MINISHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MINISHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MINISHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	SlowQuery       time.Duration `envconfig:"MINISHOP_DB_SLOW_QUERY" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MINISHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MINISHOP_REDIS_ADDR"`
	Password     string        `envconfig:"MINISHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"MINISHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MINISHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MINISHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MINISHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MINISHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MINISHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig holds the shared secret used to verify admin tokens. Tokens are
// issued by the account service; this API only mints them in tooling/tests.
type JWTConfig struct {
	Secret            string `envconfig:"MINISHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MINISHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MINISHOP_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MINISHOP_AUTO_MIGRATE" default:"false"`
	Metrics     bool `envconfig:"MINISHOP_FEATURE_METRICS" default:"true"`
}

type CheckoutConfig struct {
	MaxLineQuantity int           `envconfig:"MINISHOP_CHECKOUT_MAX_LINE_QTY" default:"1000"`
	MaxLines        int           `envconfig:"MINISHOP_CHECKOUT_MAX_LINES" default:"50"`
	IdempotencyTTL  time.Duration `envconfig:"MINISHOP_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
	RateLimitPerIP  int           `envconfig:"MINISHOP_CHECKOUT_RATE_LIMIT_PER_IP" default:"20"`
	RateLimitWindow time.Duration `envconfig:"MINISHOP_CHECKOUT_RATE_LIMIT_WINDOW" default:"10m"`
}

// CronConfig drives the maintenance worker.
type CronConfig struct {
	Interval      time.Duration `envconfig:"MINISHOP_CRON_INTERVAL" default:"1h"`
	CartLostAfter time.Duration `envconfig:"MINISHOP_CRON_CART_LOST_AFTER" default:"168h"`
	CartRetention time.Duration `envconfig:"MINISHOP_CRON_CART_RETENTION" default:"2160h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
