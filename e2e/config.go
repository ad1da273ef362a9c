package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TokenSecret string        `envconfig:"E2E_TOKEN_SECRET" default:"e2e-shared-secret"`
	SinkTimeout time.Duration `envconfig:"E2E_SINK_TIMEOUT" default:"2s"`
	// E2E_CENSORED_WORDS seeds the moderation filter for the scenarios
	CensoredWords []string `envconfig:"E2E_CENSORED_WORDS" default:"badger,snake"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
