package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "casalink"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Bus      BusConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CASALINK_APP_ENV" default:"dev"`
	Port         string `envconfig:"CASALINK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CASALINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CASALINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// The collection store is local to the machine the same way the
	// original origin storage was local to the browser, so sqlite is the
	// default. Postgres remains available for a shared deployment.
	Driver string `envconfig:"CASALINK_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"CASALINK_DB_DSN" default:"file:casalink.db"`

	MaxOpenConns    int           `envconfig:"CASALINK_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CASALINK_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CASALINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASALINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d DBConfig) validate() error {
	switch d.Driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q", d.Driver)
	}
	if d.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

type RedisConfig struct {
	// Empty URL disables the cross-context change relay; the bus stays
	// in-process only.
	URL          string        `envconfig:"CASALINK_REDIS_URL"`
	Address      string        `envconfig:"CASALINK_REDIS_ADDR"`
	Password     string        `envconfig:"CASALINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CASALINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CASALINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASALINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASALINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASALINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CASALINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"CASALINK_JWT_SECRET" default:"dev-only-secret"`
	Issuer            string `envconfig:"CASALINK_JWT_ISSUER" default:"casalink"`
	ExpirationMinutes int    `envconfig:"CASALINK_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CASALINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CASALINK_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"CASALINK_ARGON_PARALLELISM" default:"4"`
	ArgonSaltLen     int `envconfig:"CASALINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CASALINK_ARGON_KEY_LEN" default:"32"`
}

type BusConfig struct {
	// Redis channel shared by every process of the same deployment.
	Channel string `envconfig:"CASALINK_BUS_CHANNEL" default:"casalink:changes"`
}
