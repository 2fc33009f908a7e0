package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string        `env:"SERVER_PORT" envDefault:"5000"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL"`
	MongoURI      string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName   string        `env:"MONGO_DB_NAME" envDefault:"task_manager"`
	MongoTimeout  time.Duration `env:"MONGO_TIMEOUT" envDefault:"10s"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTTTL           time.Duration `env:"JWT_TTL" envDefault:"168h"`
	AdminInviteToken string        `env:"ADMIN_INVITE_TOKEN"`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"10"`

	UploadDir      string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	MaxUploadMB    int64    `env:"MAX_UPLOAD_MB" envDefault:"10"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	LogFile  string `env:"LOG_FILE" envDefault:"logs/app.log"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ImportWorkers        int           `env:"IMPORT_WORKERS" envDefault:"4"`
	StoreBreakerFailures uint32        `env:"STORE_BREAKER_FAILURES" envDefault:"5"`
	StoreBreakerTimeout  time.Duration `env:"STORE_BREAKER_TIMEOUT" envDefault:"10s"`
}

// Load reads .env files that exist, then parses the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.ImportWorkers < 1 {
		errs = append(errs, fmt.Errorf("IMPORT_WORKERS must be at least 1, got %d", c.ImportWorkers))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost))
	}
	if c.MaxUploadMB < 1 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB))
	}
	return errors.Join(errs...)
}

func (c *Config) Address() string {
	return ":" + c.ServerPort
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
