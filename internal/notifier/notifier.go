package notifier

import "context"

// Sender delivers operator-facing messages over one channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}
