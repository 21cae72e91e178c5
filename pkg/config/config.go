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
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	Events       EventsConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"AIVERSE_APP_ENV" required:"true"`
	Port         string `envconfig:"AIVERSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AIVERSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AIVERSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AIVERSE_DB_DSN"`
	Driver string `envconfig:"AIVERSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AIVERSE_DB_HOST"`
	LegacyPort     int    `envconfig:"AIVERSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AIVERSE_DB_USER"`
	LegacyPassword string `envconfig:"AIVERSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"AIVERSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"AIVERSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AIVERSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AIVERSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AIVERSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AIVERSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AIVERSE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AIVERSE_REDIS_ADDR"`
	Password     string        `envconfig:"AIVERSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AIVERSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AIVERSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AIVERSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AIVERSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AIVERSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AIVERSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AIVERSE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AIVERSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AIVERSE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AIVERSE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AIVERSE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AIVERSE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AIVERSE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AIVERSE_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	RegisterWindow time.Duration `envconfig:"AIVERSE_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterLimit  int           `envconfig:"AIVERSE_RATE_LIMIT_REGISTER_LIMIT" default:"20"`
	PaymentWindow  time.Duration `envconfig:"AIVERSE_RATE_LIMIT_PAYMENT_WINDOW" default:"5m"`
	PaymentLimit   int           `envconfig:"AIVERSE_RATE_LIMIT_PAYMENT_LIMIT" default:"10"`
	LoginWindow    time.Duration `envconfig:"AIVERSE_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginLimit     int           `envconfig:"AIVERSE_RATE_LIMIT_LOGIN_LIMIT" default:"5"`
}

// EventsConfig carries the event-selection policy knobs. CurrentSlug names
// the event that registrations and payments fall back to when a request does
// not pick one explicitly; when empty the first upcoming event wins.
type EventsConfig struct {
	CurrentSlug string `envconfig:"AIVERSE_CURRENT_EVENT_SLUG"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"AIVERSE_AUTO_MIGRATE" default:"false"`
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
