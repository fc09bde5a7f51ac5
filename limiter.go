package blogfront

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogfront/indexnow"
)

// TriggerLimiter rate-limits calls to the IndexNow trigger per IP address.
type TriggerLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewTriggerLimiter creates a TriggerLimiter that allows max calls per window.
func NewTriggerLimiter(max int, window time.Duration) *TriggerLimiter {
	l := &TriggerLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *TriggerLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip, hits := range l.attempts {
			kept := pruneBefore(hits, cutoff)
			if len(kept) == 0 {
				delete(l.attempts, ip)
			} else {
				l.attempts[ip] = kept
			}
		}
		l.mu.Unlock()
	}
}

// Stop ends the background cleanup.
func (l *TriggerLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Allow reports whether ip is under the limit and records the call.
func (l *TriggerLimiter) Allow(ip string) bool {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := pruneBefore(l.attempts[ip], cutoff)
	if len(kept) >= l.max {
		l.attempts[ip] = kept
		return false
	}
	l.attempts[ip] = append(kept, time.Now())
	return true
}

// Middleware rejects callers over the limit with the trigger's JSON shape.
func (l *TriggerLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !l.Allow(c.RealIP()) {
			return c.JSON(http.StatusTooManyRequests, indexnow.Response{
				Success:     false,
				Message:     "Too many requests. Try again later.",
				IndexedURLs: []string{},
			})
		}
		return next(c)
	}
}

func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
