package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "KASIR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"

	CatalogSourceStatic = "static"
	CatalogSourceDB     = "db"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv          = "KASIR_APP_ENV"
	EnvPort            = "KASIR_APP_PORT"
	EnvLogLevel        = "KASIR_LOG_LEVEL"
	EnvDemoQuickLogin  = "KASIR_DEMO_QUICK_LOGIN"
	EnvSessionStore    = "KASIR_SESSION_STORE"
	EnvDBDriver        = "KASIR_DB_DRIVER"
	EnvDBDSN           = "KASIR_DB_DSN"
	EnvRedisURL        = "KASIR_REDIS_URL"
	EnvRedisAddr       = "KASIR_REDIS_ADDR"
	EnvJWTSecret       = "KASIR_JWT_SECRET"
	EnvJWTIssuer       = "KASIR_JWT_ISSUER"
	EnvJWTExpMins      = "KASIR_JWT_EXPIRATION_MINUTES"
	EnvCatalogSource   = "KASIR_CATALOG_SOURCE"
	EnvTaxRatePercent  = "KASIR_TAX_RATE_PERCENT"
	EnvTaxInclusive    = "KASIR_TAX_INCLUSIVE"
	EnvProcessingDelay = "KASIR_CHECKOUT_PROCESSING_DELAY"
	EnvSuccessDelay    = "KASIR_CHECKOUT_SUCCESS_DELAY"
	EnvPaymentTimeout  = "KASIR_CHECKOUT_PAYMENT_TIMEOUT"
)

type Config struct {
	App           AppConfig
	Session       SessionConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Catalog       CatalogConfig
	Checkout      CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("%s or %s is required when %s=%s", EnvRedisURL, EnvRedisAddr, EnvSessionStore, SessionStoreRedis)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvSessionStore, c.Session.Store)
	}

	switch c.Catalog.Source {
	case CatalogSourceStatic:
	case CatalogSourceDB:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvCatalogSource, CatalogSourceDB)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvCatalogSource, c.Catalog.Source)
	}

	if c.DB.Driver != DBDriverPostgres && c.DB.Driver != DBDriverSQLite {
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, c.DB.Driver)
	}

	if c.Checkout.TaxRatePercent.IsNegative() {
		return fmt.Errorf("%s must not be negative", EnvTaxRatePercent)
	}
	if c.Checkout.ProcessingDelay < 0 || c.Checkout.SuccessDisplayDelay < 0 {
		return fmt.Errorf("checkout delays must not be negative")
	}
	if c.Checkout.PaymentTimeout <= c.Checkout.ProcessingDelay {
		return fmt.Errorf("%s (%s) must exceed %s (%s)", EnvPaymentTimeout, c.Checkout.PaymentTimeout, EnvProcessingDelay, c.Checkout.ProcessingDelay)
	}
	return nil
}

type AppConfig struct {
	Env            string `envconfig:"KASIR_APP_ENV" required:"true"`
	Port           string `envconfig:"KASIR_APP_PORT" default:"8080"`
	LogLevel       string `envconfig:"KASIR_LOG_LEVEL" default:"info"`
	LogWarnStack   bool   `envconfig:"KASIR_LOG_WARN_STACK" default:"false"`
	DemoQuickLogin bool   `envconfig:"KASIR_DEMO_QUICK_LOGIN" default:"false"`

	// CORSOrigins is a comma separated allow list; empty means the local dev origins.
	CORSOrigins []string `envconfig:"KASIR_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type SessionConfig struct {
	Store string `envconfig:"KASIR_SESSION_STORE" default:"redis"`
	// SweepInterval is how often terminals of expired sessions are closed. Zero disables it.
	SweepInterval time.Duration `envconfig:"KASIR_TERMINAL_SWEEP_INTERVAL" default:"1m"`
}

type DBConfig struct {
	Driver string `envconfig:"KASIR_DB_DRIVER" default:"postgres"`
	DSN    string `envconfig:"KASIR_DB_DSN"`

	AutoMigrate     bool          `envconfig:"KASIR_DB_AUTO_MIGRATE" default:"false"`
	MaxOpenConns    int           `envconfig:"KASIR_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"KASIR_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"KASIR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KASIR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KASIR_REDIS_URL"`
	Address      string        `envconfig:"KASIR_REDIS_ADDR"`
	Password     string        `envconfig:"KASIR_REDIS_PASSWORD"`
	DB           int           `envconfig:"KASIR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KASIR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KASIR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KASIR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KASIR_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"KASIR_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KASIR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KASIR_JWT_ISSUER" default:"kasir-pos"`
	ExpirationMinutes int    `envconfig:"KASIR_JWT_EXPIRATION_MINUTES" default:"480"`
}

// SessionTTL is how long a stored session outlives its login. It matches the
// token lifetime so the two expire together.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KASIR_ARGON_MEMORY_KB" default:"19456"`
	ArgonTime        int `envconfig:"KASIR_ARGON_TIME" default:"2"`
	ArgonParallelism int `envconfig:"KASIR_ARGON_PARALLELISM" default:"1"`
	ArgonSaltLen     int `envconfig:"KASIR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KASIR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"KASIR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"KASIR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"10"`
	LoginIPLimit    int           `envconfig:"KASIR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
}

type CatalogConfig struct {
	Source string `envconfig:"KASIR_CATALOG_SOURCE" default:"static"`
}

type CheckoutConfig struct {
	TaxRatePercent      decimal.Decimal `envconfig:"KASIR_TAX_RATE_PERCENT" default:"11"`
	TaxInclusive        bool            `envconfig:"KASIR_TAX_INCLUSIVE" default:"false"`
	ProcessingDelay     time.Duration   `envconfig:"KASIR_CHECKOUT_PROCESSING_DELAY" default:"1500ms"`
	SuccessDisplayDelay time.Duration   `envconfig:"KASIR_CHECKOUT_SUCCESS_DELAY" default:"2s"`
	PaymentTimeout      time.Duration   `envconfig:"KASIR_CHECKOUT_PAYMENT_TIMEOUT" default:"10s"`
	PointsPerAmount     int64           `envconfig:"KASIR_LOYALTY_POINTS_PER_AMOUNT" default:"10000"`
	PointValue          int64           `envconfig:"KASIR_LOYALTY_POINT_VALUE" default:"100"`
	MaxDiscountPercent  decimal.Decimal `envconfig:"KASIR_MAX_DISCOUNT_PERCENT" default:"30"`
	MinMarginPercent    decimal.Decimal `envconfig:"KASIR_MIN_MARGIN_PERCENT" default:"5"`
}

// TaxRate returns the tax rate as a fraction (11 percent -> 0.11).
func (c CheckoutConfig) TaxRate() decimal.Decimal {
	return c.TaxRatePercent.Div(decimal.NewFromInt(100))
}
