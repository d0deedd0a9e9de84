package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every DMS binary.
const EnvPrefix = "DMS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "DMS_DB_DSN"
	EnvDBHost = "DMS_DB_HOST"
	EnvDBUser = "DMS_DB_USER"
	EnvDBName = "DMS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Cart     CartConfig
	Features FeatureFlagsConfig
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
	Env          string `envconfig:"DMS_APP_ENV" required:"true"`
	Port         string `envconfig:"DMS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DMS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DMS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DMS_DB_DSN"`
	Driver string `envconfig:"DMS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DMS_DB_HOST"`
	LegacyPort     int    `envconfig:"DMS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DMS_DB_USER"`
	LegacyPassword string `envconfig:"DMS_DB_PASSWORD"`
	LegacyName     string `envconfig:"DMS_DB_NAME"`
	LegacySSLMode  string `envconfig:"DMS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DMS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DMS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DMS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DMS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	ConnectAttempts int           `envconfig:"DMS_DB_CONNECT_ATTEMPTS" default:"5"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DMS_REDIS_URL" required:"true"`
	Password     string        `envconfig:"DMS_REDIS_PASSWORD"`
	DB           int           `envconfig:"DMS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DMS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DMS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DMS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DMS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DMS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DMS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DMS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DMS_JWT_EXPIRATION_MINUTES" default:"480"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DMS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DMS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DMS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DMS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DMS_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	SessionTTL     time.Duration `envconfig:"DMS_CART_SESSION_TTL" default:"24h"`
	IdempotencyTTL time.Duration `envconfig:"DMS_CART_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DMS_AUTO_MIGRATE" default:"false"`
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
