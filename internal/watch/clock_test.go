package watch

import (
	"testing"
	"time"
)

func TestPlaybackClock_AdvancesWhilePlaying(t *testing.T) {
	clock := NewPlaybackClock()

	time.Sleep(50 * time.Millisecond)

	if pos := clock.Position(); pos <= 0 {
		t.Errorf("Expected position to advance, got %f", pos)
	}
}

func TestPlaybackClock_PauseFreezesPosition(t *testing.T) {
	clock := NewPlaybackClock()

	time.Sleep(30 * time.Millisecond)
	clock.Pause()

	frozen := clock.Position()
	time.Sleep(50 * time.Millisecond)

	if pos := clock.Position(); pos != frozen {
		t.Errorf("Expected frozen position %f, got %f", frozen, pos)
	}
	if clock.Playing() {
		t.Error("Expected clock to be paused")
	}
}

func TestPlaybackClock_ResumeContinues(t *testing.T) {
	clock := NewPlaybackClock()

	time.Sleep(30 * time.Millisecond)
	clock.Pause()
	frozen := clock.Position()

	clock.Resume()
	time.Sleep(30 * time.Millisecond)

	if pos := clock.Position(); pos <= frozen {
		t.Errorf("Expected position to advance past %f, got %f", frozen, pos)
	}
}

func TestPlaybackClock_DoublePauseResume(t *testing.T) {
	clock := NewPlaybackClock()

	clock.Pause()
	clock.Pause() // no-op
	if clock.Playing() {
		t.Error("Expected paused after double pause")
	}

	clock.Resume()
	clock.Resume() // no-op
	if !clock.Playing() {
		t.Error("Expected playing after double resume")
	}
}
