package notify

import (
	"context"
)

// Sender delivers opportunity alerts to an external channel. Delivery
// failures are warnings for the caller, never fatal.
type Sender interface {
	Name() string
	Send(ctx context.Context, title, message string) error
}
