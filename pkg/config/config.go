package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Pricing       PricingConfig
	Checkout      CheckoutConfig
	Artwork       ArtworkConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.parseVAT(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PIXELPRINT_APP_ENV" required:"true"`
	Port         string `envconfig:"PIXELPRINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PIXELPRINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PIXELPRINT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PIXELPRINT_DB_DSN"`
	Driver string `envconfig:"PIXELPRINT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PIXELPRINT_DB_HOST"`
	LegacyPort     int    `envconfig:"PIXELPRINT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PIXELPRINT_DB_USER"`
	LegacyPassword string `envconfig:"PIXELPRINT_DB_PASSWORD"`
	LegacyName     string `envconfig:"PIXELPRINT_DB_NAME"`
	LegacySSLMode  string `envconfig:"PIXELPRINT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PIXELPRINT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PIXELPRINT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PIXELPRINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PIXELPRINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PIXELPRINT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PIXELPRINT_REDIS_ADDR"`
	Password     string        `envconfig:"PIXELPRINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"PIXELPRINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PIXELPRINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PIXELPRINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PIXELPRINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PIXELPRINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PIXELPRINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PIXELPRINT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PIXELPRINT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PIXELPRINT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PIXELPRINT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PIXELPRINT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PIXELPRINT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PIXELPRINT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PIXELPRINT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PIXELPRINT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"PIXELPRINT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"PIXELPRINT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"PIXELPRINT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PIXELPRINT_AUTO_MIGRATE" default:"false"`
}

// PricingConfig carries the single VAT rate shared by the quote engine and any
// invoice/display code. Changing the rate is one env var.
type PricingConfig struct {
	VATRate string `envconfig:"PIXELPRINT_VAT_RATE" default:"0.20"`

	vat decimal.Decimal
}

// VAT returns the parsed VAT rate.
func (p PricingConfig) VAT() decimal.Decimal {
	return p.vat
}

func (p *PricingConfig) parseVAT() error {
	rate, err := decimal.NewFromString(strings.TrimSpace(p.VATRate))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvVATRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be between 0 and 1", EnvVATRate)
	}
	p.vat = rate
	return nil
}

type CheckoutConfig struct {
	OrderNumberStart int64 `envconfig:"PIXELPRINT_ORDER_NUMBER_START" default:"1000"`
	MaxItems         int   `envconfig:"PIXELPRINT_CHECKOUT_MAX_ITEMS" default:"25"`
}

type ArtworkConfig struct {
	MaxUploadMB  int      `envconfig:"PIXELPRINT_ARTWORK_MAX_UPLOAD_MB" default:"200"`
	AllowedMimes []string `envconfig:"PIXELPRINT_ARTWORK_ALLOWED_MIMES" default:"application/pdf,image/png,image/jpeg,image/tiff"`
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
