package bus

import (
	"context"

	"github.com/yungbote/classbridge-backend/internal/realtime"
)

// Bus carries realtime messages between API instances. Every instance runs a forwarder
// that hands received messages to its local hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
