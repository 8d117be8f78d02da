package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete client configuration, loadable from environment
// variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	GatewayURL     string        `usage:"Commerce gateway base URL (STOREFRONT_GATEWAY_URL)" flag:"gateway-url"`
	Timeout        time.Duration `default:"15s" usage:"Per-request timeout"`
	UserAgent      string        `default:"storefront-client/1.0" usage:"User-Agent sent to the gateway" flag:"user-agent"`
	CredentialFile string        `usage:"Path to the bearer token file" flag:"credential-file"`
	Token          string        `usage:"Bearer token held in memory for the session (overrides the credential file)"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.GatewayURL == "" {
		return nil, errors.New("gateway URL is required: set STOREFRONT_GATEWAY_URL")
	}
	if cfg.Token == "" && cfg.CredentialFile == "" {
		return nil, errors.New("a credential source is required: set STOREFRONT_TOKEN or STOREFRONT_CREDENTIAL_FILE")
	}

	return &cfg, nil
}
