package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix envconfig uses when deriving variable names.
// Every tag below spells the full name out explicitly, so the prefix only
// matters for variables without a tag.
const EnvPrefix = "TRAMPALA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (error
// messages, tests).
const (
	EnvAppEnv     = "TRAMPALA_APP_ENV"
	EnvAppPort    = "TRAMPALA_APP_PORT"
	EnvDBDSN      = "TRAMPALA_DB_DSN"
	EnvDBHost     = "TRAMPALA_DB_HOST"
	EnvDBUser     = "TRAMPALA_DB_USER"
	EnvDBName     = "TRAMPALA_DB_NAME"
	EnvRedisURL   = "TRAMPALA_REDIS_URL"
	EnvJWTSecret  = "TRAMPALA_JWT_SECRET"
	EnvJWTIssuer  = "TRAMPALA_JWT_ISSUER"
	EnvJWTExpMins = "TRAMPALA_JWT_EXPIRATION_MINUTES"
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
	Media         MediaConfig
	Storage       StorageConfig
	SMTP          SMTPConfig
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
	Env          string `envconfig:"TRAMPALA_APP_ENV" required:"true"`
	Port         string `envconfig:"TRAMPALA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRAMPALA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRAMPALA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRAMPALA_DB_DSN"`
	Driver string `envconfig:"TRAMPALA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRAMPALA_DB_HOST"`
	LegacyPort     int    `envconfig:"TRAMPALA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRAMPALA_DB_USER"`
	LegacyPassword string `envconfig:"TRAMPALA_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRAMPALA_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRAMPALA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRAMPALA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRAMPALA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRAMPALA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRAMPALA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRAMPALA_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"TRAMPALA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRAMPALA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRAMPALA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRAMPALA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRAMPALA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TRAMPALA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TRAMPALA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TRAMPALA_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRAMPALA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRAMPALA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRAMPALA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRAMPALA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRAMPALA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TRAMPALA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TRAMPALA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TRAMPALA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TRAMPALA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TRAMPALA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TRAMPALA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRAMPALA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRAMPALA_AUTO_MIGRATE" default:"false"`
}

type MediaConfig struct {
	MaxUploadMB  int    `envconfig:"TRAMPALA_MEDIA_MAX_UPLOAD_MB" default:"2"`
	AllowedTypes string `envconfig:"TRAMPALA_MEDIA_ALLOWED_TYPES" default:"jpeg,jpg,png,webp"`
}

// MaxUploadBytes converts the configured megabyte cap to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
}

// AllowedExtensions splits the comma separated allow list.
func (m MediaConfig) AllowedExtensions() []string {
	parts := strings.Split(m.AllowedTypes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type StorageConfig struct {
	Root    string `envconfig:"TRAMPALA_STORAGE_ROOT" default:"storage/media"`
	BaseURL string `envconfig:"TRAMPALA_STORAGE_BASE_URL" default:"/media"`
}

type SMTPConfig struct {
	Host     string `envconfig:"TRAMPALA_SMTP_HOST"`
	Port     int    `envconfig:"TRAMPALA_SMTP_PORT" default:"587"`
	Username string `envconfig:"TRAMPALA_SMTP_USERNAME"`
	Password string `envconfig:"TRAMPALA_SMTP_PASSWORD"`
	From     string `envconfig:"TRAMPALA_SMTP_FROM" default:"noreply@trampala.app"`
}

// Enabled reports whether outbound mail is configured at all.
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
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
