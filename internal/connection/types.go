package connection

import (
	"time"

	"github.com/rickgao/ctsp-server/internal/protocol"
)

// Config holds listener settings.
type Config struct {
	Addr         string
	MaxConns     int64
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		MaxConns:     256,
		IdleTimeout:  5 * time.Minute,
		WriteTimeout: 10 * time.Second,
	}
}

// Handler turns one parsed request into a response.
type Handler interface {
	Dispatch(req *protocol.Request) *protocol.Response
}

// errorBody mirrors the dispatcher's error payload for parse failures.
type errorBody struct {
	Error string `json:"error"`
}
