package janitor

import "context"

// Client runs the periodic cleanup jobs until ctx is cancelled.
type Client interface {
	Schedule(ctx context.Context) error
}
