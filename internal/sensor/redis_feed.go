package sensor

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisFeed реализует Feed через Redis Pub/Sub (Infrastructure Layer).
// Мост публикует каждое измерение в канал; фид хранит только самое свежее -
// это общая запись "текущий пульс", на которую подписаны все потребители.
type RedisFeed struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc

	mu      sync.RWMutex
	latest  Reading
	hasData bool
}

// NewRedisFeed подписывается на канал измерений и запускает прием
func NewRedisFeed(client *redis.Client, channel string) *RedisFeed {
	ctx, cancel := context.WithCancel(context.Background())

	f := &RedisFeed{
		pubsub: client.Subscribe(ctx, channel),
		cancel: cancel,
	}

	go f.receiveLoop(ctx)

	log.Printf("[SENSOR] Subscribed to BPM feed channel: %s", channel)
	return f
}

// Latest возвращает последнее полученное измерение
func (f *RedisFeed) Latest() (Reading, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latest, f.hasData
}

// Close останавливает подписку
func (f *RedisFeed) Close() error {
	f.cancel()
	return f.pubsub.Close()
}

func (f *RedisFeed) receiveLoop(ctx context.Context) {
	ch := f.pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var reading Reading
			if err := json.Unmarshal([]byte(msg.Payload), &reading); err != nil {
				log.Printf("[WARN] Malformed BPM payload dropped: %v", err)
				continue
			}

			if reading.BPM <= 0 {
				log.Printf("[WARN] Non-positive BPM dropped: %d", reading.BPM)
				continue
			}

			f.mu.Lock()
			f.latest = reading
			f.hasData = true
			f.mu.Unlock()
		}
	}
}
