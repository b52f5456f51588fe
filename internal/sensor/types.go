package sensor

import "time"

// Reading представляет одно измерение пульса от сенсорного моста
type Reading struct {
	BPM              int   `json:"bpm"`
	CapturedAtMillis int64 `json:"captured_at_millis"`
}

// NewReading создает измерение с текущей временной меткой
func NewReading(bpm int) Reading {
	return Reading{
		BPM:              bpm,
		CapturedAtMillis: time.Now().UnixMilli(),
	}
}

// Feed предоставляет доступ к последнему измерению пульса (push-подписка)
type Feed interface {
	// Latest возвращает последнее полученное измерение.
	// Второе значение false, если измерений еще не было.
	Latest() (Reading, bool)

	// Close останавливает подписку и освобождает ресурсы
	Close() error
}
