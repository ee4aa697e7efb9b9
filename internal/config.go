package internal

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	APIURL           string        `env:"RENTCHAT_API_URL,required=true"`
	SocketURL        string        `env:"RENTCHAT_SOCKET_URL,required=true"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH,default=.rentchat"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT,default=15s"`
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT,default=10s"`
	ChatPageSize     int           `env:"CHAT_PAGE_SIZE,default=50"`
	EchoTimeout      time.Duration `env:"ECHO_TIMEOUT,default=3s"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,default=1s"`
}

// Validate rejects values go-env accepts but the client cannot work with.
func (c Config) Validate() error {
	for name, raw := range map[string]string{"RENTCHAT_API_URL": c.APIURL, "RENTCHAT_SOCKET_URL": c.SocketURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute url, got %q", name, raw)
		}
	}
	if c.ChatPageSize <= 0 {
		return fmt.Errorf("CHAT_PAGE_SIZE must be positive, got %d", c.ChatPageSize)
	}
	if c.EchoTimeout <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("ECHO_TIMEOUT and REQUEST_TIMEOUT must be positive")
	}
	return nil
}
