package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/stories-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

type RegistryOpts struct {
	fx.In

	Clock  clockwork.Clock
	Logger logger.Logger
}

// Registry keeps at most one viewer per chat.
type Registry struct {
	clock  clockwork.Clock
	logger logger.Logger

	mu      sync.Mutex
	viewers map[int64]*Viewer
}

func NewRegistry(opts RegistryOpts) *Registry {
	return &Registry{
		clock:   opts.Clock,
		logger:  opts.Logger.WithComponent("ViewerRegistry"),
		viewers: make(map[int64]*Viewer),
	}
}

// Put makes v the chat's viewer, dismissing the one it replaces.
func (r *Registry) Put(chatID int64, v *Viewer) {
	r.mu.Lock()
	prev := r.viewers[chatID]
	r.viewers[chatID] = v
	r.mu.Unlock()

	if prev != nil && prev != v {
		prev.Dismiss()
	}
}

func (r *Registry) Get(chatID int64) (*Viewer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.viewers[chatID]
	return v, ok
}

// Remove forgets v if it is still the chat's viewer.
func (r *Registry) Remove(chatID int64, v *Viewer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.viewers[chatID] == v {
		delete(r.viewers, chatID)
	}
}

func (r *Registry) Close(ctx context.Context, chatID int64) bool {
	r.mu.Lock()
	v, ok := r.viewers[chatID]
	delete(r.viewers, chatID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	v.Close(ctx)
	return true
}

// Sweep stops viewers that saw no activity for longer than idle. The chat
// is left on the last frame.
func (r *Registry) Sweep(idle time.Duration) int {
	now := r.clock.Now()

	r.mu.Lock()
	var stale []*Viewer
	for chatID, v := range r.viewers {
		if now.Sub(v.LastActive()) > idle {
			stale = append(stale, v)
			delete(r.viewers, chatID)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		v.Dismiss()
	}
	if len(stale) > 0 {
		r.logger.Info("Closed idle viewers", "count", len(stale))
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}

// DismissAll stops every viewer without touching the chats.
func (r *Registry) DismissAll() {
	r.mu.Lock()
	viewers := r.viewers
	r.viewers = make(map[int64]*Viewer)
	r.mu.Unlock()

	for _, v := range viewers {
		v.Dismiss()
	}
}
