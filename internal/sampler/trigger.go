package sampler

import "time"

// Trigger решает, когда запускать классификацию эмоции.
// Срабатывает при |delta| >= threshold, но не чаще чем раз в cooldown.
// Срабатывание сбрасывает отсчет cooldown независимо от исхода
// классификации; несработавшая большая дельта внутри cooldown
// отсчет НЕ сбрасывает.
type Trigger struct {
	threshold int
	cooldown  time.Duration

	fired     bool
	lastFired time.Time
}

// NewTrigger создает оценщик с заданными порогом и периодом тишины
func NewTrigger(threshold int, cooldown time.Duration) *Trigger {
	return &Trigger{
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Evaluate возвращает true, если по паре измерений нужно запустить
// классификацию. Не потокобезопасен: вызывается только из цикла сэмплера.
func (t *Trigger) Evaluate(prevBPM, newBPM int, now time.Time) bool {
	delta := newBPM - prevBPM
	if delta < 0 {
		delta = -delta
	}

	if delta < t.threshold {
		return false
	}

	if t.fired && now.Sub(t.lastFired) < t.cooldown {
		return false
	}

	t.fired = true
	t.lastFired = now
	return true
}
