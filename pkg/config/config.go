package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Orders       OrdersConfig
	Idempotency  IdempotencyConfig
	HTTP         HTTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every invalid setting at once.
func (c *Config) validate() error {
	return multierr.Combine(
		c.App.validate(),
		c.Orders.validate(),
		c.Idempotency.validate(),
		c.HTTP.validate(),
	)
}

type AppConfig struct {
	Env          string `envconfig:"SHOPADMIN_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPADMIN_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPADMIN_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOPADMIN_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SHOPADMIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.LogFormat)) {
	case "json", "console":
		return nil
	}
	return fmt.Errorf("%s must be json or console, got %q", EnvLogFormat, a.LogFormat)
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPADMIN_DB_DSN"`
	Driver string `envconfig:"SHOPADMIN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPADMIN_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPADMIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPADMIN_DB_USER"`
	LegacyPassword string `envconfig:"SHOPADMIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPADMIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPADMIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPADMIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPADMIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPADMIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPADMIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPADMIN_REDIS_URL"`
	Address      string        `envconfig:"SHOPADMIN_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPADMIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPADMIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPADMIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPADMIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPADMIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPADMIN_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"SHOPADMIN_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a redis endpoint was configured. Without one the
// API runs without idempotency replay.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPADMIN_AUTO_MIGRATE" default:"false"`
}

type OrdersConfig struct {
	NumberPrefix   string `envconfig:"SHOPADMIN_ORDER_NUMBER_PREFIX" default:"ORD-"`
	NumberAttempts int    `envconfig:"SHOPADMIN_ORDER_NUMBER_ATTEMPTS" default:"5"`
}

func (o OrdersConfig) validate() error {
	if o.NumberAttempts < 1 {
		return fmt.Errorf("%s must be at least 1", EnvOrderNumberAttempts)
	}
	return nil
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"SHOPADMIN_IDEMPOTENCY_TTL" default:"24h"`
}

func (i IdempotencyConfig) validate() error {
	if i.TTL < 0 {
		return fmt.Errorf("%s must not be negative", EnvIdempotencyTTL)
	}
	return nil
}

// HTTPConfig controls the admin API edge: allowed browser origins and the
// per-client budget for mutating requests. A zero WriteLimit disables
// throttling.
type HTTPConfig struct {
	CORSOrigins     []string      `envconfig:"SHOPADMIN_CORS_ORIGINS" default:"http://localhost:3000"`
	RateLimitWindow time.Duration `envconfig:"SHOPADMIN_RATE_LIMIT_WINDOW" default:"1m"`
	WriteLimit      int           `envconfig:"SHOPADMIN_RATE_LIMIT_WRITES" default:"120"`
}

func (h HTTPConfig) validate() error {
	switch {
	case h.WriteLimit < 0:
		return fmt.Errorf("%s must not be negative", EnvWriteLimit)
	case h.WriteLimit > 0 && h.RateLimitWindow <= 0:
		return fmt.Errorf("%s must be positive when %s is set", EnvRateLimitWindow, EnvWriteLimit)
	}
	return nil
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
