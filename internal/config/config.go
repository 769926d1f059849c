package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/garrettladley/payconiq/internal/endpoint"
	appenv "github.com/garrettladley/payconiq/internal/env"
	"github.com/garrettladley/payconiq/internal/storage"
)

type Config struct {
	Payconiq Payconiq       `envPrefix:"PAYCONIQ_"`
	Cache    storage.Config `envPrefix:"CACHE_"`
	Port     string         `env:"PORT" envDefault:"8080"`
}

type Payconiq struct {
	APIKey          string             `env:"API_KEY"`
	ProfileID       string             `env:"PROFILE_ID"`
	Env             appenv.Environment `env:"ENV" envDefault:"production"`
	LegacyEndpoints bool               `env:"LEGACY_ENDPOINTS" envDefault:"false"`
	CertificatesURL string             `env:"CERTIFICATES_URL"`
	Timeout         time.Duration      `env:"TIMEOUT" envDefault:"10s"`
	ConnectTimeout  time.Duration      `env:"CONNECT_TIMEOUT" envDefault:"2s"`
}

// Endpoints resolves the hosts for the configured environment, applying the
// certificates override when set.
func (p Payconiq) Endpoints() endpoint.Set {
	set := endpoint.For(p.Env, p.LegacyEndpoints)
	if p.CertificatesURL != "" {
		set.Certificates = p.CertificatesURL
	}
	return set
}

func Read() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Payconiq.Env.Validate(); err != nil {
		return Config{}, fmt.Errorf("PAYCONIQ_ENV: %w", err)
	}
	return cfg, nil
}
