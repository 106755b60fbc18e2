package rd

import (
	"sync"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

// embeddedRedis lazily starts one miniredis server shared by every in-memory
// client the process builds, so revocation entries written through one client
// are visible to the rest.
type embeddedRedis struct {
	mu     sync.Mutex
	server *miniredis.Miniredis
}

func (e *embeddedRedis) addr() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.server == nil {
		server, err := miniredis.Run()
		if err != nil {
			return "", err
		}
		e.server = server
	}
	return e.server.Addr(), nil
}

var embedded embeddedRedis

// NewClient dials redis per the config. With in_memory set, the embedded
// server backs the client instead, which keeps single-node deployments and
// local development free of an external dependency.
func NewClient(cfg Config) (*redis.Client, error) {
	options := cfg.Options()
	if cfg.InMemory {
		addr, err := embedded.addr()
		if err != nil {
			return nil, err
		}
		options.Addr = addr
	}

	return redis.NewClient(options), nil
}
