package security

import (
	"sync"
	"time"
)

// rateLimiter counts requests per client over a fixed window. The counter
// resets when the window elapses.
type rateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	clients map[string]*clientWindow
}

type clientWindow struct {
	start time.Time
	count int
}

func newRateLimiter(window time.Duration, max int) *rateLimiter {
	return &rateLimiter{
		window:  window,
		max:     max,
		clients: make(map[string]*clientWindow),
	}
}

// allow records one request for clientID and reports whether it fits in the
// current window.
func (rl *rateLimiter) allow(clientID string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cw, ok := rl.clients[clientID]
	if !ok || now.Sub(cw.start) >= rl.window {
		rl.clients[clientID] = &clientWindow{start: now, count: 1}
		return true
	}
	cw.count++
	return cw.count <= rl.max
}

// reset clears all client windows.
func (rl *rateLimiter) reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.clients = make(map[string]*clientWindow)
}
