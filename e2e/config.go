package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_LOG_LEVEL is the level of the client logger, DEBUG dumps every request
	LogLevel string `envconfig:"E2E_LOG_LEVEL" default:"ERROR"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours     bool          `envconfig:"E2E_COLOURS" default:"true"`
	PageSize    int           `envconfig:"E2E_PAGE_SIZE" default:"2"`
	EchoTimeout time.Duration `envconfig:"E2E_ECHO_TIMEOUT" default:"2s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
