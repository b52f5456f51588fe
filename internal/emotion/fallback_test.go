package emotion

import "testing"

func TestFallback_Deterministic(t *testing.T) {
	in := Input{CurrentBPM: 95, History: []int{70, 75, 95}, VideoTimestampSec: 42}

	first := Fallback(in, 70)
	second := Fallback(in, 70)

	if first != second {
		t.Errorf("Expected identical verdicts, got %+v and %+v", first, second)
	}
}

func TestFallback_RisingTrend(t *testing.T) {
	// Тренд +15 (95 против 80 тремя отсчетами раньше) -> surprise
	in := Input{CurrentBPM: 95, History: []int{80, 85, 95}}

	v := Fallback(in, 70)
	if v.Emotion != EmotionSurprise {
		t.Errorf("Expected surprise for rising trend, got %s", v.Emotion)
	}
}

func TestFallback_FallingTrend(t *testing.T) {
	in := Input{CurrentBPM: 65, History: []int{80, 70, 65}}

	v := Fallback(in, 70)
	if v.Emotion != EmotionCalm {
		t.Errorf("Expected calm for falling trend, got %s", v.Emotion)
	}
}

func TestFallback_HighDelta(t *testing.T) {
	// Тренд мал, дельта от базы +25 -> excitement
	in := Input{CurrentBPM: 95, History: []int{93, 94, 95}}

	v := Fallback(in, 70)
	if v.Emotion != EmotionExcitement {
		t.Errorf("Expected excitement for delta +25, got %s", v.Emotion)
	}
	if v.Valence != 0.3 {
		t.Errorf("Expected valence 0.3 for positive delta, got %f", v.Valence)
	}
}

func TestFallback_LowDelta(t *testing.T) {
	// Тренд мал, дельта -15 -> calm
	in := Input{CurrentBPM: 55, History: []int{56, 55, 55}}

	v := Fallback(in, 70)
	if v.Emotion != EmotionCalm {
		t.Errorf("Expected calm for delta -15, got %s", v.Emotion)
	}
	if v.Valence != -0.3 {
		t.Errorf("Expected valence -0.3 for negative delta, got %f", v.Valence)
	}
}

func TestFallback_ArousalClamped(t *testing.T) {
	// Дельта +60: arousal = 60/40 ограничивается единицей
	in := Input{CurrentBPM: 130, History: []int{128, 129, 130}}

	v := Fallback(in, 70)
	if v.Arousal != 1 {
		t.Errorf("Expected arousal clamped to 1, got %f", v.Arousal)
	}
}

func TestFallback_AlwaysValid(t *testing.T) {
	inputs := []Input{
		{CurrentBPM: 70},
		{CurrentBPM: 40, History: []int{180, 100, 40}},
		{CurrentBPM: 180, History: []int{40, 100, 180}},
	}

	for _, in := range inputs {
		v := Fallback(in, 70)
		if err := v.Validate(); err != nil {
			t.Errorf("Fallback produced invalid verdict for %+v: %v", in, err)
		}
		if v.Confidence != 0.5 {
			t.Errorf("Expected confidence 0.5, got %f", v.Confidence)
		}
		if v.Color != ColorFor(v.Emotion) {
			t.Errorf("Expected color %s, got %s", ColorFor(v.Emotion), v.Color)
		}
	}
}
