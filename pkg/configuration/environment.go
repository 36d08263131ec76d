package configuration

import (
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tempora-uz/tempora/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

type DatabaseOptions struct {
	Name     string `env:"DB_NAME" envDefault:"tempora"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

type Configuration struct {
	Database   DatabaseOptions
	GoAppEnv   string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	RLSEnforce string `env:"RLS_ENFORCE" envDefault:"off"`

	logger *logrus.Logger
}

// Use returns the process-wide configuration, loading it on first call.
func Use() *Configuration {
	return singleton()
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) load(envFiles []string) error {
	if _, err := LoadEnv(envFiles); err != nil {
		return err
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	c.logger = logging.ConsoleLogger(level)
	return nil
}

// LoadEnv loads the env files that exist and reports how many were found.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}
