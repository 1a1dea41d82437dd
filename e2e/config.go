package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_URL points at a live chat server; the suite is skipped when empty.
	ServerURL string `envconfig:"E2E_SERVER_URL"`
	// E2E_PEER_NAME is the identity of the peer the scenario chats with.
	PeerName string `envconfig:"E2E_PEER_NAME" default:"bob"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
