package bus

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/realtime"
)

func TestLocalBusForwardsToHub(t *testing.T) {
	hub := realtime.NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, "subject:1")

	b := NewLocalBus()
	if err := b.StartForwarder(context.Background(), hub.Broadcast); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: "subject:1", Event: realtime.SSEEventScheduleImported}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case msg := <-client.Outbound:
		if msg.Event != realtime.SSEEventScheduleImported {
			t.Fatalf("event: want=%s got=%s", realtime.SSEEventScheduleImported, msg.Event)
		}
	default:
		t.Fatalf("message not forwarded")
	}

	_ = b.Close()
	if err := b.Publish(context.Background(), realtime.SSEMessage{Channel: "subject:1"}); err != nil {
		t.Fatalf("Publish after close: %v", err)
	}
	if len(client.Outbound) != 0 {
		t.Fatalf("closed bus must not deliver")
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(logger.Nop(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
