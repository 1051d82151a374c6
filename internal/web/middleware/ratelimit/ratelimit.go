// Package ratelimit limits api requests per client ip.
package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	cleanupInterval = 3 * time.Minute
	staleAfter      = 5 * time.Minute
)

// Message is the envelope message of a rejected request.
const Message = "too many requests, please try again later"

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client ip.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rps      rate.Limit
	burst    int
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// New returns a Limiter allowing rps requests per second with bursts of
// burst requests, and starts the removal of idle ips. Call Stop to end it.
func New(rps float64, burst int) *Limiter {
	l := &Limiter{
		limiters: make(map[string]*ipLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

func (l *Limiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.limiters[ip]
	if !ok {
		v = &ipLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = v
	}

	v.lastSeen = l.now()

	return v.limiter
}

func (l *Limiter) cleanupLoop() {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			l.cleanup()
		}
	}
}

// cleanup drops ips not seen for staleAfter.
func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, v := range l.limiters {
		if l.now().Sub(v.lastSeen) > staleAfter {
			delete(l.limiters, ip)
		}
	}
}

// Stop ends the cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Handler rejects requests over the limit with 429 and the api envelope.
// Requests for which skip returns true are not counted.
func (l *Limiter) Handler(skip func(c *fiber.Ctx) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skip != nil && skip(c) {
			return c.Next()
		}

		if !l.get(c.IP()).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"code":    fiber.StatusTooManyRequests,
				"message": Message,
			})
		}

		return c.Next()
	}
}
