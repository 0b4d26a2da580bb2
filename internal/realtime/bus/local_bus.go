package bus

import (
	"context"
	"sync"

	"github.com/yungbote/classbridge-backend/internal/realtime"
)

// localBus delivers in-process. It serves single-instance deployments without redis.
type localBus struct {
	mu        sync.RWMutex
	receivers []func(realtime.SSEMessage)
}

func NewLocalBus() Bus { return &localBus{} }

func (b *localBus) Publish(_ context.Context, msg realtime.SSEMessage) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, fn := range b.receivers {
		fn(msg)
	}
	return nil
}

func (b *localBus) StartForwarder(_ context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return nil
	}
	b.mu.Lock()
	b.receivers = append(b.receivers, onMsg)
	b.mu.Unlock()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	b.receivers = nil
	b.mu.Unlock()
	return nil
}
