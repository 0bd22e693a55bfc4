package infra

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/jellydator/validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"

	defaultSecretKey = "supersecretkey"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"dev"`
	Port string `env:"PORT"`

	SecretKey      string        `env:"SECRET_KEY" envDefault:"supersecretkey"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_EXPIRE" envDefault:"30m"`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`

	// DB_NAMEが設定されている場合はPostgreSQLを使用
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	SQLiteDSN  string `env:"SQLITE_DSN" envDefault:"file::memory:?cache=shared&_foreign_keys=on"`

	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	SeedAdmin     bool   `env:"SEED_ADMIN" envDefault:"true"`
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`
}

// NewConfig は環境変数から設定を読み込み検証する
func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Port == "" {
		cfg.Port = lookupFallbackPort()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Env, validation.Required, validation.In(EnvDev, EnvTest, EnvProd)),
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.SecretKey,
			validation.Required,
			validation.When(c.Env == EnvProd, validation.NotIn(defaultSecretKey).Error("must be overridden in prod")),
		),
		validation.Field(&c.AccessTokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
		validation.Field(&c.AdminUsername, validation.When(c.SeedAdmin, validation.Required)),
		validation.Field(&c.AdminEmail, validation.When(c.SeedAdmin, validation.Required)),
		validation.Field(&c.AdminPassword, validation.When(c.SeedAdmin, validation.Required, validation.By(maxBytes(72)))),
	)
}

// maxBytes はバイト長で制限する。validation.Lengthはルーン数を数える
func maxBytes(limit int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if len(s) > limit {
			return fmt.Errorf("must be at most %d bytes", limit)
		}
		return nil
	}
}

func (c Config) IsProd() bool {
	return c.Env == EnvProd
}

// Lambda Web Adapter 経由の場合は AWS_LWA_PORT を使う
func lookupFallbackPort() string {
	if port := os.Getenv("AWS_LWA_PORT"); port != "" {
		return port
	}
	return "8080"
}
