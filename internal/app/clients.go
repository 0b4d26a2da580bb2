package app

import (
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/classbridge-backend/internal/clients/gcp"
	"github.com/yungbote/classbridge-backend/internal/clients/razorpay"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/realtime/bus"
)

// Clients are the optional outside systems. A nil field means the feature is off.
type Clients struct {
	Bucket  gcp.BucketService
	Gateway razorpay.Gateway
	Bus     bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	var out Clients

	if cfg.StorageEnabled() {
		bucket, err := gcp.NewBucketService(log, cfg.Bucket)
		if err != nil {
			return Clients{}, err
		}
		out.Bucket = bucket
	} else {
		log.Warn("storage not configured; asset uploads disabled")
	}

	if cfg.PaymentsEnabled() {
		gw, err := razorpay.NewClient(log, cfg.Razorpay)
		if err != nil {
			return Clients{}, err
		}
		out.Gateway = gw
	} else {
		log.Warn("razorpay not configured; checkout disabled")
	}

	if cfg.Redis.Addr != "" {
		b, err := bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			return Clients{}, err
		}
		out.Bus = b
	} else {
		log.Info("REDIS_ADDR empty; realtime events stay in-process")
		out.Bus = bus.NewLocalBus()
	}
	return out, nil
}

// RedisClient is set when the bus is redis-backed.
func (c Clients) RedisClient() *goredis.Client {
	if p, ok := c.Bus.(interface{ Client() *goredis.Client }); ok {
		return p.Client()
	}
	return nil
}
