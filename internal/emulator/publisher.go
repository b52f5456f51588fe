package emulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BioTune/biotune/internal/sensor"
)

// Publisher публикует сгенерированный пульс в канал Redis.
// Один запущенный цикл на издателя; повторный Start при работающем
// цикле - ошибка, о которой HTTP слой сообщает как "already_running".
type Publisher struct {
	client    *redis.Client
	channel   string
	generator *PulseGenerator
	interval  time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool

	stats struct {
		mu        sync.RWMutex
		published int64
		errors    int64
	}
}

// NewPublisher создает издателя пульса
func NewPublisher(client *redis.Client, channel string, generator *PulseGenerator, interval time.Duration) *Publisher {
	return &Publisher{
		client:    client,
		channel:   channel,
		generator: generator,
		interval:  interval,
	}
}

// Start запускает цикл публикации
func (p *Publisher) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("publisher already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true

	go p.run(ctx)

	log.Printf("[EMULATOR] Started publishing to channel %s every %v", p.channel, p.interval)
	return nil
}

// Stop останавливает цикл публикации
func (p *Publisher) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return fmt.Errorf("publisher not running")
	}

	p.cancel()
	p.running = false

	log.Printf("[EMULATOR] Stopped publishing")
	return nil
}

// Running возвращает true, если цикл публикации запущен
func (p *Publisher) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Publisher) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logStats()
			return
		case <-ticker.C:
			p.publish(ctx)
		}
	}
}

func (p *Publisher) publish(ctx context.Context) {
	reading := sensor.NewReading(p.generator.NextValue())

	data, err := json.Marshal(reading)
	if err != nil {
		p.incrementErrors()
		log.Printf("[ERROR] Failed to marshal reading: %v", err)
		return
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.incrementErrors()
		log.Printf("[ERROR] Failed to publish reading: %v", err)
		return
	}

	p.incrementPublished()
}

// ===== Статистика =====

func (p *Publisher) incrementPublished() {
	p.stats.mu.Lock()
	p.stats.published++
	p.stats.mu.Unlock()
}

func (p *Publisher) incrementErrors() {
	p.stats.mu.Lock()
	p.stats.errors++
	p.stats.mu.Unlock()
}

// GetStats возвращает счетчики публикаций
func (p *Publisher) GetStats() (published, errors int64) {
	p.stats.mu.RLock()
	defer p.stats.mu.RUnlock()
	return p.stats.published, p.stats.errors
}

func (p *Publisher) logStats() {
	published, errors := p.GetStats()
	log.Printf("[STATS] published=%d errors=%d", published, errors)
}
