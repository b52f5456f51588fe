package emulator

import (
	"math/rand"
	"sync"
	"time"
)

// GeneratorConfig задает параметры генератора пульса
type GeneratorConfig struct {
	BaseValue   int // Базовый пульс в покое
	Variability int // Максимальное отклонение от базы
	MinValue    int // Физиологический минимум
	MaxValue    int // Физиологический максимум
}

// DefaultGeneratorConfig возвращает параметры пульса взрослого зрителя
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		BaseValue:   70,
		Variability: 5,
		MinValue:    40,
		MaxValue:    180,
	}
}

// GeneratorStats содержит статистику работы генератора
type GeneratorStats struct {
	TotalValuesGenerated int64   `json:"total_values_generated"`
	LastValue            int     `json:"last_value"`
	MinValueGenerated    int     `json:"min_value_generated"`
	MaxValueGenerated    int     `json:"max_value_generated"`
	AverageValue         float64 `json:"average_value"`
}

// PulseGenerator генерирует правдоподобный пульс зрителя: случайный
// шум вокруг базы плюс редкие всплески, имитирующие реакцию на сцены
type PulseGenerator struct {
	rand      *rand.Rand
	config    GeneratorConfig
	baseValue int
	surge     int // Остаток текущего всплеска, затухает к нулю
	stats     GeneratorStats
	mu        sync.Mutex
}

// NewPulseGenerator создает генератор пульса
func NewPulseGenerator(cfg GeneratorConfig) *PulseGenerator {
	return &PulseGenerator{
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		config:    cfg,
		baseValue: cfg.BaseValue,
		stats: GeneratorStats{
			MinValueGenerated: 300, // Начальное большое значение
			MaxValueGenerated: 0,   // Начальное маленькое значение
		},
	}
}

// NextValue возвращает следующее значение пульса
func (g *PulseGenerator) NextValue() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Изредка начинаем всплеск - резкий подъем с плавным затуханием
	if g.surge == 0 && g.rand.Intn(20) == 0 {
		g.surge = 15 + g.rand.Intn(25)
	}

	variation := g.rand.Intn(g.config.Variability*2+1) - g.config.Variability
	value := g.baseValue + g.surge + variation

	if g.surge > 0 {
		g.surge -= 3
		if g.surge < 0 {
			g.surge = 0
		}
	}

	// Ограничиваем физиологическими пределами
	if value < g.config.MinValue {
		value = g.config.MinValue
	}
	if value > g.config.MaxValue {
		value = g.config.MaxValue
	}

	g.updateStats(value)

	return value
}

// SetBaseValue устанавливает базовое значение пульса
func (g *PulseGenerator) SetBaseValue(value int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if value < g.config.MinValue {
		value = g.config.MinValue
	}
	if value > g.config.MaxValue {
		value = g.config.MaxValue
	}
	g.baseValue = value
}

// Seed устанавливает seed для случайного генератора
func (g *PulseGenerator) Seed(seed int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rand.Seed(seed)
}

// Reset сбрасывает состояние генератора
func (g *PulseGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.baseValue = g.config.BaseValue
	g.surge = 0
	g.stats = GeneratorStats{
		MinValueGenerated: 300,
		MaxValueGenerated: 0,
	}
}

// GetStats возвращает статистику работы генератора
func (g *PulseGenerator) GetStats() GeneratorStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

func (g *PulseGenerator) updateStats(value int) {
	g.stats.TotalValuesGenerated++
	g.stats.LastValue = value

	if value < g.stats.MinValueGenerated {
		g.stats.MinValueGenerated = value
	}
	if value > g.stats.MaxValueGenerated {
		g.stats.MaxValueGenerated = value
	}

	// Пересчитываем среднее значение
	totalSum := g.stats.AverageValue * float64(g.stats.TotalValuesGenerated-1)
	g.stats.AverageValue = (totalSum + float64(value)) / float64(g.stats.TotalValuesGenerated)
}
