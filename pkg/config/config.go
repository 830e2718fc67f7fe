package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is empty because every field names its variable in full.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "POULTRYSTORE_DB_DSN"
	EnvDBHost = "POULTRYSTORE_DB_HOST"
	EnvDBUser = "POULTRYSTORE_DB_USER"
	EnvDBName = "POULTRYSTORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cache         CacheConfig
	Invoice       InvoiceConfig
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
	Env          string   `envconfig:"POULTRYSTORE_APP_ENV" required:"true"`
	Port         string   `envconfig:"POULTRYSTORE_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"POULTRYSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"POULTRYSTORE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"POULTRYSTORE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POULTRYSTORE_DB_DSN"`
	Driver string `envconfig:"POULTRYSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POULTRYSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"POULTRYSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POULTRYSTORE_DB_USER"`
	LegacyPassword string `envconfig:"POULTRYSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"POULTRYSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"POULTRYSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POULTRYSTORE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POULTRYSTORE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POULTRYSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POULTRYSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POULTRYSTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POULTRYSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"POULTRYSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"POULTRYSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POULTRYSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POULTRYSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POULTRYSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POULTRYSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POULTRYSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"POULTRYSTORE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"POULTRYSTORE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"POULTRYSTORE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"POULTRYSTORE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POULTRYSTORE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POULTRYSTORE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POULTRYSTORE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POULTRYSTORE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POULTRYSTORE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"POULTRYSTORE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"POULTRYSTORE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"POULTRYSTORE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"POULTRYSTORE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"POULTRYSTORE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"POULTRYSTORE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"POULTRYSTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"POULTRYSTORE_AUTO_MIGRATE" default:"false"`
}

// CacheConfig tunes the storefront read cache.
type CacheConfig struct {
	CatalogTTL time.Duration `envconfig:"POULTRYSTORE_CACHE_CATALOG_TTL" default:"60s"`
}

// InvoiceConfig holds the seller identity printed on rendered invoices.
type InvoiceConfig struct {
	SellerName   string `envconfig:"POULTRYSTORE_INVOICE_SELLER_NAME" default:"Poultry Store"`
	SellerNameAr string `envconfig:"POULTRYSTORE_INVOICE_SELLER_NAME_AR" default:"متجر الدواجن"`
	SellerVATNo  string `envconfig:"POULTRYSTORE_INVOICE_SELLER_VAT_NO"`
	VATPercent   int    `envconfig:"POULTRYSTORE_INVOICE_VAT_PERCENT" default:"15"`
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
