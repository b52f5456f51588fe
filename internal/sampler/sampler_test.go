package sampler

import (
	"sync"
	"testing"
	"time"

	"github.com/BioTune/biotune/internal/sensor"
)

// FakeFeed для тестирования - отдает заранее заданное измерение
type FakeFeed struct {
	mu      sync.Mutex
	reading sensor.Reading
	hasData bool
}

func (f *FakeFeed) Set(bpm int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reading = sensor.Reading{BPM: bpm, CapturedAtMillis: time.Now().UnixMilli()}
	f.hasData = true
}

func (f *FakeFeed) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hasData = false
}

func (f *FakeFeed) Latest() (sensor.Reading, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reading, f.hasData
}

func (f *FakeFeed) Close() error { return nil }

// TestSink для тестирования - собирает все события
type TestSink struct {
	mu       sync.Mutex
	samples  []sensor.Reading
	triggers []int
}

func (ts *TestSink) OnSample(r sensor.Reading) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.samples = append(ts.samples, r)
}

func (ts *TestSink) OnTrigger(r sensor.Reading, delta int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.triggers = append(ts.triggers, delta)
}

func (ts *TestSink) Counts() (samples, triggers int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.samples), len(ts.triggers)
}

func (ts *TestSink) Triggers() []int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	result := make([]int, len(ts.triggers))
	copy(result, ts.triggers)
	return result
}

func newTestSampler(feed sensor.Feed, sink Sink) *Sampler {
	window := NewWindow(30)
	trigger := NewTrigger(10, 10*time.Second)
	return NewSampler(2*time.Second, feed, window, trigger, sink)
}

func TestSampler_SkipsEmptyFeed(t *testing.T) {
	feed := &FakeFeed{}
	sink := &TestSink{}
	s := newTestSampler(feed, sink)

	s.tick(time.Now())
	s.tick(time.Now())

	samples, _ := sink.Counts()
	if samples != 0 {
		t.Errorf("Expected 0 samples from empty feed, got %d", samples)
	}

	_, skipped, sampled, _ := s.GetStats()
	if skipped != 2 {
		t.Errorf("Expected 2 skipped ticks, got %d", skipped)
	}
	if sampled != 0 {
		t.Errorf("Expected 0 sampled ticks, got %d", sampled)
	}
}

func TestSampler_PausedSkipsTicks(t *testing.T) {
	feed := &FakeFeed{}
	feed.Set(70)
	sink := &TestSink{}
	s := newTestSampler(feed, sink)

	s.SetPaused(true)
	s.tick(time.Now())

	samples, _ := sink.Counts()
	if samples != 0 {
		t.Errorf("Expected 0 samples while paused, got %d", samples)
	}

	s.SetPaused(false)
	s.tick(time.Now())

	samples, _ = sink.Counts()
	if samples != 1 {
		t.Errorf("Expected 1 sample after resume, got %d", samples)
	}
}

func TestSampler_RampFiresOnce(t *testing.T) {
	// Последовательность [70, 70, 70, 82, 82] дает ровно одно срабатывание
	feed := &FakeFeed{}
	sink := &TestSink{}
	s := newTestSampler(feed, sink)

	start := time.Now()
	bpms := []int{70, 70, 70, 82, 82}

	for i, bpm := range bpms {
		feed.Set(bpm)
		s.tick(start.Add(time.Duration(i) * 2 * time.Second))
	}

	samples, triggers := sink.Counts()
	if samples != 5 {
		t.Errorf("Expected 5 samples, got %d", samples)
	}
	if triggers != 1 {
		t.Errorf("Expected exactly 1 trigger, got %d", triggers)
	}

	if deltas := sink.Triggers(); len(deltas) == 1 && deltas[0] != 12 {
		t.Errorf("Expected trigger delta 12, got %d", deltas[0])
	}
}

func TestSampler_NoTriggerOnFirstSample(t *testing.T) {
	// Без предыдущего измерения дельты нет - первая выборка не триггерит
	feed := &FakeFeed{}
	feed.Set(150)
	sink := &TestSink{}
	s := newTestSampler(feed, sink)

	s.tick(time.Now())

	_, triggers := sink.Counts()
	if triggers != 0 {
		t.Errorf("Expected no trigger on first sample, got %d", triggers)
	}
}

func TestSampler_WindowFilled(t *testing.T) {
	feed := &FakeFeed{}
	window := NewWindow(3)
	trigger := NewTrigger(10, 10*time.Second)
	sink := &TestSink{}
	s := NewSampler(2*time.Second, feed, window, trigger, sink)

	for i, bpm := range []int{70, 71, 72, 73} {
		feed.Set(bpm)
		s.tick(time.Now().Add(time.Duration(i) * 2 * time.Second))
	}

	history := window.BPMHistory()
	expected := []int{71, 72, 73}
	if len(history) != 3 {
		t.Fatalf("Expected window of 3, got %d", len(history))
	}
	for i, bpm := range expected {
		if history[i] != bpm {
			t.Errorf("Expected history[%d]=%d, got %d", i, bpm, history[i])
		}
	}
}
