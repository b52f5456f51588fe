package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BioTune/biotune/internal/emotion"
	"github.com/BioTune/biotune/internal/sampler"
	"github.com/BioTune/biotune/internal/sensor"
	"github.com/BioTune/biotune/internal/session"
	"github.com/BioTune/biotune/internal/ws"
)

// FakeClassifier для тестирования - отдает фиксированный вердикт,
// опционально блокируясь до сигнала или до истечения контекста
type FakeClassifier struct {
	verdict emotion.Verdict
	block   chan struct{} // Если не nil, Classify ждет закрытия канала
	waitCtx bool          // Если true, Classify ждет ctx.Done() как реальный таймаут

	mu    sync.Mutex
	calls int
}

func (f *FakeClassifier) Classify(ctx context.Context, in emotion.Input) emotion.Verdict {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.waitCtx {
		<-ctx.Done()
	}
	return f.verdict
}

func (f *FakeClassifier) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FakeRecorder для тестирования - собирает точки, может возвращать ошибку
type FakeRecorder struct {
	mu     sync.Mutex
	points []session.EmotionDataPoint
	fail   error
}

func (f *FakeRecorder) AppendEmotionPoint(ctx context.Context, sessionID string, point session.EmotionDataPoint) error {
	// Как настоящее хранилище - с мертвым контекстом запись не проходит
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.points = append(f.points, point)
	return nil
}

func (f *FakeRecorder) Points() []session.EmotionDataPoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]session.EmotionDataPoint, len(f.points))
	copy(result, f.points)
	return result
}

// FakeBroadcaster для тестирования - собирает все обновления
type FakeBroadcaster struct {
	mu      sync.Mutex
	updates []ws.LiveUpdate
}

func (f *FakeBroadcaster) BroadcastUpdate(update ws.LiveUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
}

func (f *FakeBroadcaster) Updates() []ws.LiveUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]ws.LiveUpdate, len(f.updates))
	copy(result, f.updates)
	return result
}

func newTestController(classifier Classifier, recorder Recorder, hub Broadcaster) *Controller {
	clock := NewPlaybackClock()
	window := sampler.NewWindow(30)
	window.Append(sensor.Reading{BPM: 70})
	window.Append(sensor.Reading{BPM: 82})
	return NewController("sess-1", clock, window, classifier, recorder, hub, time.Second)
}

func TestController_OnSampleBroadcasts(t *testing.T) {
	hub := &FakeBroadcaster{}
	c := newTestController(&FakeClassifier{}, &FakeRecorder{}, hub)

	c.OnSample(sensor.Reading{BPM: 75, CapturedAtMillis: 123})

	updates := hub.Updates()
	if len(updates) != 1 {
		t.Fatalf("Expected 1 update, got %d", len(updates))
	}
	if updates[0].BPM != 75 || updates[0].SessionID != "sess-1" {
		t.Errorf("Unexpected update: %+v", updates[0])
	}
	if updates[0].Verdict != nil {
		t.Error("Expected no verdict on plain sample")
	}
}

func TestController_TriggerClassifiesAndRecords(t *testing.T) {
	classifier := &FakeClassifier{verdict: emotion.Verdict{
		Emotion: emotion.EmotionSurprise, Arousal: 0.6, Valence: 0.3, Confidence: 0.8,
	}}
	recorder := &FakeRecorder{}
	hub := &FakeBroadcaster{}
	c := newTestController(classifier, recorder, hub)

	c.OnTrigger(sensor.Reading{BPM: 82}, 12)

	// Классификация асинхронна
	time.Sleep(100 * time.Millisecond)

	points := recorder.Points()
	if len(points) != 1 {
		t.Fatalf("Expected 1 recorded point, got %d", len(points))
	}
	if points[0].Emotion != "surprise" || points[0].BPM != 82 {
		t.Errorf("Unexpected point: %+v", points[0])
	}

	updates := hub.Updates()
	if len(updates) != 1 {
		t.Fatalf("Expected 1 verdict update, got %d", len(updates))
	}
	if updates[0].Verdict == nil || updates[0].Verdict.Emotion != emotion.EmotionSurprise {
		t.Errorf("Expected surprise verdict in update, got %+v", updates[0].Verdict)
	}
}

func TestController_SingleSlotDropsConcurrentTriggers(t *testing.T) {
	block := make(chan struct{})
	classifier := &FakeClassifier{
		verdict: emotion.Verdict{Emotion: emotion.EmotionCalm, Arousal: 0.2, Valence: 0.1, Confidence: 0.7},
		block:   block,
	}
	recorder := &FakeRecorder{}
	hub := &FakeBroadcaster{}
	c := newTestController(classifier, recorder, hub)

	c.OnTrigger(sensor.Reading{BPM: 82}, 12)
	time.Sleep(20 * time.Millisecond)

	// Второй триггер при занятом слоте отбрасывается
	c.OnTrigger(sensor.Reading{BPM: 95}, 13)

	close(block)
	time.Sleep(100 * time.Millisecond)

	if calls := classifier.Calls(); calls != 1 {
		t.Errorf("Expected 1 classification, got %d", calls)
	}

	classified, dropped := c.GetStats()
	if classified != 1 {
		t.Errorf("Expected 1 classified, got %d", classified)
	}
	if dropped != 1 {
		t.Errorf("Expected 1 dropped, got %d", dropped)
	}
}

func TestController_SlotFreedAfterClassification(t *testing.T) {
	classifier := &FakeClassifier{verdict: emotion.Verdict{
		Emotion: emotion.EmotionCalm, Arousal: 0.2, Valence: 0.1, Confidence: 0.7,
	}}
	recorder := &FakeRecorder{}
	hub := &FakeBroadcaster{}
	c := newTestController(classifier, recorder, hub)

	c.OnTrigger(sensor.Reading{BPM: 82}, 12)
	time.Sleep(100 * time.Millisecond)

	c.OnTrigger(sensor.Reading{BPM: 95}, 13)
	time.Sleep(100 * time.Millisecond)

	if calls := classifier.Calls(); calls != 2 {
		t.Errorf("Expected 2 classifications after slot freed, got %d", calls)
	}
}

func TestController_TimeoutFallbackStillRecorded(t *testing.T) {
	// Классификатор висит до истечения таймаута и возвращает фолбэк -
	// точка все равно должна сохраниться и транслироваться
	classifier := &FakeClassifier{
		verdict: emotion.Verdict{Emotion: emotion.EmotionCalm, Arousal: 0.2, Valence: -0.3, Confidence: 0.5},
		waitCtx: true,
	}
	recorder := &FakeRecorder{}
	hub := &FakeBroadcaster{}

	clock := NewPlaybackClock()
	window := sampler.NewWindow(30)
	window.Append(sensor.Reading{BPM: 70})
	window.Append(sensor.Reading{BPM: 82})
	c := NewController("sess-1", clock, window, classifier, recorder, hub, 50*time.Millisecond)

	c.OnTrigger(sensor.Reading{BPM: 82}, 12)
	time.Sleep(200 * time.Millisecond)

	points := recorder.Points()
	if len(points) != 1 {
		t.Fatalf("Expected fallback point recorded after timeout, got %d", len(points))
	}
	if points[0].Emotion != "calm" {
		t.Errorf("Unexpected point: %+v", points[0])
	}

	updates := hub.Updates()
	if len(updates) != 1 || updates[0].Verdict == nil {
		t.Errorf("Expected verdict broadcast after timeout, got %d updates", len(updates))
	}
}

func TestController_RecorderFailureNotFatal(t *testing.T) {
	classifier := &FakeClassifier{verdict: emotion.Verdict{
		Emotion: emotion.EmotionJoy, Arousal: 0.5, Valence: 0.8, Confidence: 0.9,
	}}
	recorder := &FakeRecorder{fail: errors.New("database unavailable")}
	hub := &FakeBroadcaster{}
	c := newTestController(classifier, recorder, hub)

	c.OnTrigger(sensor.Reading{BPM: 82}, 12)
	time.Sleep(100 * time.Millisecond)

	// Вердикт все равно транслируется
	updates := hub.Updates()
	if len(updates) != 1 || updates[0].Verdict == nil {
		t.Errorf("Expected verdict broadcast despite recorder failure, got %d updates", len(updates))
	}

	// И слот освобождается
	classified, _ := c.GetStats()
	if classified != 1 {
		t.Errorf("Expected 1 classified, got %d", classified)
	}
}
