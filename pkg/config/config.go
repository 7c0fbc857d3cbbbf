package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Uploads       UploadsConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string   `envconfig:"MADALALI_APP_ENV" required:"true"`
	Port         string   `envconfig:"MADALALI_APP_PORT" default:"5000"`
	LogLevel     string   `envconfig:"MADALALI_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"MADALALI_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"MADALALI_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MADALALI_DB_DSN"`

	Host     string `envconfig:"MADALALI_DB_HOST"`
	Port     int    `envconfig:"MADALALI_DB_PORT" default:"5432"`
	User     string `envconfig:"MADALALI_DB_USER"`
	Password string `envconfig:"MADALALI_DB_PASSWORD"`
	Name     string `envconfig:"MADALALI_DB_NAME"`
	SSLMode  string `envconfig:"MADALALI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MADALALI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MADALALI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MADALALI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MADALALI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MADALALI_REDIS_URL"`
	Address      string        `envconfig:"MADALALI_REDIS_ADDR"`
	Password     string        `envconfig:"MADALALI_REDIS_PASSWORD"`
	DB           int           `envconfig:"MADALALI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MADALALI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MADALALI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MADALALI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MADALALI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MADALALI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"MADALALI_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"MADALALI_JWT_ISSUER" default:"madalali-tz"`
	ExpirationHours int    `envconfig:"MADALALI_JWT_EXPIRATION_HOURS" default:"168"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationHours <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MADALALI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MADALALI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MADALALI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MADALALI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MADALALI_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MADALALI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MADALALI_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MADALALI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MADALALI_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MADALALI_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MADALALI_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type UploadsConfig struct {
	Dir         string `envconfig:"MADALALI_UPLOADS_DIR" default:"uploads"`
	PublicPath  string `envconfig:"MADALALI_UPLOADS_PUBLIC_PATH" default:"/uploads"`
	MaxUploadMB int    `envconfig:"MADALALI_MAX_UPLOAD_MB" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MADALALI_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"MADALALI_DB_HOST": db.Host,
		"MADALALI_DB_USER": db.User,
		"MADALALI_DB_NAME": db.Name,
	}
	for _, key := range []string{"MADALALI_DB_HOST", "MADALALI_DB_USER", "MADALALI_DB_NAME"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either MADALALI_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
