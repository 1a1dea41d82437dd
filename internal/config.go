package internal

import "time"

// Config holds the client environment. The identity database path defaults to
// the SDK location when left empty.
type Config struct {
	ServerURL         string        `env:"CHAT_SERVER_URL,default=ws://localhost:4000/ws"`
	IdentityDBPath    string        `env:"IDENTITY_DB_PATH"`
	LogLevel          string        `env:"LOG_LEVEL,default=info"`
	ConnectTimeout    time.Duration `env:"CONNECT_TIMEOUT,default=10s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=5s"`
}
