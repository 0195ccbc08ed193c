package resty_fetcher

import (
	"math/rand/v2"
	"sync"

	"github.com/go-resty/resty/v2"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// rotator hands out proxied clients sequentially and user agents at random.
type rotator struct {
	clients    []*resty.Client
	userAgents []string
	mu         sync.Mutex
	next       int
}

func newRotator(clients []*resty.Client, userAgents []string) *rotator {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &rotator{clients: clients, userAgents: userAgents}
}

// client returns the next client, rotating through the configured proxies.
func (r *rotator) client() *resty.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.clients[r.next]
	r.next = (r.next + 1) % len(r.clients)
	return c
}

func (r *rotator) userAgent() string {
	return r.userAgents[rand.IntN(len(r.userAgents))]
}
