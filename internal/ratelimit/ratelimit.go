package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	"golang.org/x/time/rate"
)

// Limiter throttles commands and button presses per chat.
type Limiter interface {
	Allow(chatID int64) bool
	// Prune forgets chats that were quiet for longer than idle.
	Prune(idle time.Duration) int
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InMemoryLimiter keeps one token bucket per chat.
type InMemoryLimiter struct {
	mu    sync.Mutex
	chats map[int64]*entry
	clock clockwork.Clock
	r     rate.Limit
	b     int
}

// NewInMemoryLimiter allows requests events every per, with bursts of
// burst. NewInMemoryLimiter(1, 5*time.Second, 3) allows one event every
// five seconds and three in a row.
func NewInMemoryLimiter(requests int, per time.Duration, burst int, clock clockwork.Clock) *InMemoryLimiter {
	if requests <= 0 {
		requests = 1
	}
	return &InMemoryLimiter{
		chats: make(map[int64]*entry),
		clock: clock,
		r:     rate.Every(per / time.Duration(requests)),
		b:     burst,
	}
}

func New(cfg *config.Config, clock clockwork.Clock) Limiter {
	return NewInMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Per, cfg.RateLimit.Burst, clock)
}

func (l *InMemoryLimiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	e, ok := l.chats[chatID]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.chats[chatID] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

func (l *InMemoryLimiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	n := 0
	for chatID, e := range l.chats {
		if now.Sub(e.lastSeen) > idle {
			delete(l.chats, chatID)
			n++
		}
	}
	return n
}
