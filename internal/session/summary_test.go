package session

import "testing"

func TestComputeSummary(t *testing.T) {
	points := []EmotionDataPoint{
		{Emotion: "fear", BPM: 80, Timestamp: 10},
		{Emotion: "fear", BPM: 90, Timestamp: 20},
		{Emotion: "calm", BPM: 65, Timestamp: 30},
	}

	s := ComputeSummary(points)

	// (80+90+65)/3 = 78.33 -> 78
	if s.AverageBPM != 78 {
		t.Errorf("Expected average BPM 78, got %d", s.AverageBPM)
	}
	if s.DominantEmotion != "fear" {
		t.Errorf("Expected dominant fear, got %s", s.DominantEmotion)
	}
	if s.EmotionSummary["fear"] != 67 {
		t.Errorf("Expected fear 67%%, got %d", s.EmotionSummary["fear"])
	}
	if s.EmotionSummary["calm"] != 33 {
		t.Errorf("Expected calm 33%%, got %d", s.EmotionSummary["calm"])
	}
	if s.DurationSec != 30 {
		t.Errorf("Expected duration 30, got %f", s.DurationSec)
	}
}

func TestComputeSummary_OmitsAbsentEmotions(t *testing.T) {
	points := []EmotionDataPoint{
		{Emotion: "joy", BPM: 75, Timestamp: 5},
	}

	s := ComputeSummary(points)

	if len(s.EmotionSummary) != 1 {
		t.Errorf("Expected 1 emotion in summary, got %d", len(s.EmotionSummary))
	}
	if s.EmotionSummary["joy"] != 100 {
		t.Errorf("Expected joy 100%%, got %d", s.EmotionSummary["joy"])
	}
}

func TestComputeSummary_TieBreakEarliestFirstSeen(t *testing.T) {
	points := []EmotionDataPoint{
		{Emotion: "surprise", BPM: 80, Timestamp: 10},
		{Emotion: "calm", BPM: 70, Timestamp: 20},
		{Emotion: "calm", BPM: 70, Timestamp: 30},
		{Emotion: "surprise", BPM: 80, Timestamp: 40},
	}

	s := ComputeSummary(points)

	// При равном числе вхождений побеждает встреченная раньше
	if s.DominantEmotion != "surprise" {
		t.Errorf("Expected surprise (seen first), got %s", s.DominantEmotion)
	}
}

func TestComputeSummary_Empty(t *testing.T) {
	s := ComputeSummary(nil)

	if s.AverageBPM != 0 {
		t.Errorf("Expected zero average, got %d", s.AverageBPM)
	}
	if s.DominantEmotion != "" {
		t.Errorf("Expected empty dominant emotion, got %s", s.DominantEmotion)
	}
	if s.EmotionSummary == nil {
		t.Error("Expected non-nil empty summary map")
	}
	if s.DurationSec != 0 {
		t.Errorf("Expected zero duration, got %f", s.DurationSec)
	}
}

func TestComputeSummary_Idempotent(t *testing.T) {
	points := []EmotionDataPoint{
		{Emotion: "fear", BPM: 80, Timestamp: 10},
		{Emotion: "calm", BPM: 65, Timestamp: 30},
	}

	first := ComputeSummary(points)
	second := ComputeSummary(points)

	if first.AverageBPM != second.AverageBPM || first.DominantEmotion != second.DominantEmotion {
		t.Errorf("Expected identical summaries, got %+v and %+v", first, second)
	}
}

func TestComputeSummary_DurationFromLastPoint(t *testing.T) {
	// Длительность - позиция последней точки в порядке поступления,
	// даже если позиции не монотонны (перемотка назад)
	points := []EmotionDataPoint{
		{Emotion: "fear", BPM: 80, Timestamp: 50},
		{Emotion: "calm", BPM: 65, Timestamp: 20},
	}

	s := ComputeSummary(points)
	if s.DurationSec != 20 {
		t.Errorf("Expected duration 20 from last point, got %f", s.DurationSec)
	}
}
