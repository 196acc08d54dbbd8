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
	Cart         CartConfig
	Orders       OrdersConfig
	Notify       NotifyConfig
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
	Env          string `envconfig:"SOFRA_APP_ENV" required:"true"`
	Port         string `envconfig:"SOFRA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SOFRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOFRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SOFRA_DB_DSN"`

	Host     string `envconfig:"SOFRA_DB_HOST"`
	Port     int    `envconfig:"SOFRA_DB_PORT" default:"5432"`
	User     string `envconfig:"SOFRA_DB_USER"`
	Password string `envconfig:"SOFRA_DB_PASSWORD"`
	Name     string `envconfig:"SOFRA_DB_NAME"`
	SSLMode  string `envconfig:"SOFRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOFRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOFRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOFRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOFRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOFRA_REDIS_URL"`
	Address      string        `envconfig:"SOFRA_REDIS_ADDR"`
	Password     string        `envconfig:"SOFRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOFRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOFRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOFRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOFRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOFRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOFRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SOFRA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SOFRA_JWT_ISSUER" default:"sofra"`
	ExpirationMinutes int    `envconfig:"SOFRA_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type CartConfig struct {
	// MaxLineQty bounds the quantity of a single cart line; merges that
	// would exceed it are rejected.
	MaxLineQty int `envconfig:"SOFRA_CART_MAX_LINE_QTY" default:"20"`
}

type OrdersConfig struct {
	Timezone          string        `envconfig:"SOFRA_ORDERS_TIMEZONE" default:"Africa/Cairo"`
	DisplayPrefix     string        `envconfig:"SOFRA_ORDERS_PREFIX" default:"OR"`
	DisplayPadWidth   int           `envconfig:"SOFRA_ORDERS_PAD_WIDTH" default:"4"`
	AllocatorAttempts int           `envconfig:"SOFRA_ORDERS_ALLOCATOR_ATTEMPTS" default:"5"`
	AllocatorBackoff  time.Duration `envconfig:"SOFRA_ORDERS_ALLOCATOR_BACKOFF" default:"0"`
}

type NotifyConfig struct {
	OrderChannelPrefix string `envconfig:"SOFRA_NOTIFY_ORDER_CHANNEL_PREFIX" default:"orders"`
	AdminChannel       string `envconfig:"SOFRA_NOTIFY_ADMIN_CHANNEL" default:"admin.orders"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SOFRA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, envVar := range requiredDBEnvVars {
		if values[envVar] == "" {
			missing = append(missing, envVar)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
