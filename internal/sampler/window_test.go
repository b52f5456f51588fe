package sampler

import (
	"testing"

	"github.com/BioTune/biotune/internal/sensor"
)

func TestWindow_AppendAndOrder(t *testing.T) {
	w := NewWindow(5)

	for _, bpm := range []int{70, 72, 75} {
		w.Append(sensor.Reading{BPM: bpm})
	}

	history := w.BPMHistory()
	if len(history) != 3 {
		t.Fatalf("Expected 3 readings, got %d", len(history))
	}

	expected := []int{70, 72, 75}
	for i, bpm := range expected {
		if history[i] != bpm {
			t.Errorf("Expected history[%d]=%d, got %d", i, bpm, history[i])
		}
	}
}

func TestWindow_EvictsOldest(t *testing.T) {
	w := NewWindow(3)

	for _, bpm := range []int{70, 72, 75, 80, 85} {
		w.Append(sensor.Reading{BPM: bpm})
	}

	if w.Len() != 3 {
		t.Fatalf("Expected window of 3, got %d", w.Len())
	}

	history := w.BPMHistory()
	expected := []int{75, 80, 85}
	for i, bpm := range expected {
		if history[i] != bpm {
			t.Errorf("Expected history[%d]=%d, got %d", i, bpm, history[i])
		}
	}
}

func TestWindow_Last(t *testing.T) {
	w := NewWindow(3)

	if _, ok := w.Last(); ok {
		t.Error("Expected no last reading in empty window")
	}

	w.Append(sensor.Reading{BPM: 70})
	w.Append(sensor.Reading{BPM: 82})

	last, ok := w.Last()
	if !ok {
		t.Fatal("Expected last reading")
	}
	if last.BPM != 82 {
		t.Errorf("Expected last BPM 82, got %d", last.BPM)
	}
}

func TestWindow_ReadingsReturnsCopy(t *testing.T) {
	w := NewWindow(3)
	w.Append(sensor.Reading{BPM: 70})

	readings := w.Readings()
	readings[0].BPM = 999

	history := w.BPMHistory()
	if history[0] != 70 {
		t.Errorf("Window mutated through returned slice: got %d", history[0])
	}
}
