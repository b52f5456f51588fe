package sampler

import (
	"testing"
	"time"
)

func TestTrigger_BelowThreshold(t *testing.T) {
	tr := NewTrigger(10, 10*time.Second)
	now := time.Now()

	if tr.Evaluate(70, 79, now) {
		t.Error("Expected no fire for delta 9")
	}
	if tr.Evaluate(70, 61, now) {
		t.Error("Expected no fire for delta -9")
	}
}

func TestTrigger_FiresAtThreshold(t *testing.T) {
	tr := NewTrigger(10, 10*time.Second)
	now := time.Now()

	if !tr.Evaluate(70, 80, now) {
		t.Error("Expected fire for delta 10")
	}
}

func TestTrigger_NegativeDeltaFires(t *testing.T) {
	tr := NewTrigger(10, 10*time.Second)
	now := time.Now()

	if !tr.Evaluate(80, 68, now) {
		t.Error("Expected fire for delta -12")
	}
}

func TestTrigger_CooldownSuppresses(t *testing.T) {
	tr := NewTrigger(10, 10*time.Second)
	now := time.Now()

	if !tr.Evaluate(70, 82, now) {
		t.Fatal("Expected first fire")
	}

	// Большая дельта внутри cooldown подавляется
	if tr.Evaluate(82, 95, now.Add(3*time.Second)) {
		t.Error("Expected suppression within cooldown")
	}

	// После cooldown срабатывает снова
	if !tr.Evaluate(95, 82, now.Add(11*time.Second)) {
		t.Error("Expected fire after cooldown expired")
	}
}

func TestTrigger_SuppressedFireDoesNotResetCooldown(t *testing.T) {
	tr := NewTrigger(10, 10*time.Second)
	now := time.Now()

	if !tr.Evaluate(70, 82, now) {
		t.Fatal("Expected first fire")
	}

	// Подавленная дельта на 8-й секунде не должна продлевать тишину
	if tr.Evaluate(82, 95, now.Add(8*time.Second)) {
		t.Fatal("Expected suppression at 8s")
	}

	// 11 секунд от ПЕРВОГО срабатывания, не от подавленного
	if !tr.Evaluate(95, 110, now.Add(11*time.Second)) {
		t.Error("Expected fire 11s after original fire")
	}
}

func TestTrigger_RampFiresOnce(t *testing.T) {
	// Пульс [70, 70, 70, 82, 82] с шагом 2 секунды: единственный
	// скачок 70->82 дает ровно одно срабатывание
	tr := NewTrigger(10, 10*time.Second)
	start := time.Now()

	bpms := []int{70, 70, 70, 82, 82}
	fired := 0

	for i := 1; i < len(bpms); i++ {
		now := start.Add(time.Duration(i) * 2 * time.Second)
		if tr.Evaluate(bpms[i-1], bpms[i], now) {
			fired++
		}
	}

	if fired != 1 {
		t.Errorf("Expected exactly 1 fire, got %d", fired)
	}
}
