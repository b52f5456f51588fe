package emotion

import "testing"

func TestComputeStats(t *testing.T) {
	in := Input{CurrentBPM: 82, History: []int{70, 70, 70, 82, 82}}

	stats := ComputeStats(in, 70)

	// (70+70+70+82+82)/5 = 74.8 -> 75
	if stats.AvgBPM != 75 {
		t.Errorf("Expected avg 75, got %d", stats.AvgBPM)
	}
	// 82 - 70 (третий с конца)
	if stats.Trend != 12 {
		t.Errorf("Expected trend 12, got %d", stats.Trend)
	}
	if stats.Delta != 12 {
		t.Errorf("Expected delta 12, got %d", stats.Delta)
	}
}

func TestComputeStats_ShortHistory(t *testing.T) {
	in := Input{CurrentBPM: 90, History: []int{85, 90}}

	stats := ComputeStats(in, 70)

	if stats.Trend != 0 {
		t.Errorf("Expected zero trend for history shorter than 3, got %d", stats.Trend)
	}
}

func TestComputeStats_EmptyHistory(t *testing.T) {
	in := Input{CurrentBPM: 75}

	stats := ComputeStats(in, 70)

	if stats.AvgBPM != 75 {
		t.Errorf("Expected avg to fall back to current BPM, got %d", stats.AvgBPM)
	}
	if stats.Delta != 5 {
		t.Errorf("Expected delta 5, got %d", stats.Delta)
	}
}

func TestVerdict_Validate(t *testing.T) {
	// Пустой цвет допустим - его заполняет классификатор
	valid := Verdict{Emotion: EmotionFear, Arousal: 0.8, Valence: -0.6, Confidence: 0.9}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid verdict, got error: %v", err)
	}
	if valid.Color != "" {
		t.Errorf("Expected Validate to leave verdict unchanged, got color %q", valid.Color)
	}

	withColor := Verdict{Emotion: EmotionFear, Arousal: 0.8, Valence: -0.6, Confidence: 0.9, Color: "#8b0000"}
	if err := withColor.Validate(); err != nil {
		t.Errorf("Expected matching color to pass, got error: %v", err)
	}

	cases := []Verdict{
		{Emotion: "boredom", Arousal: 0.5, Valence: 0, Confidence: 0.5},
		{Emotion: EmotionJoy, Arousal: 1.5, Valence: 0, Confidence: 0.5},
		{Emotion: EmotionJoy, Arousal: 0.5, Valence: -2, Confidence: 0.5},
		{Emotion: EmotionJoy, Arousal: 0.5, Valence: 0, Confidence: 1.1},
		// Цвет спокойствия при страхе - нарушение фиксированного соответствия
		{Emotion: EmotionFear, Arousal: 0.5, Valence: 0, Confidence: 0.5, Color: "#10b981"},
	}

	for i, v := range cases {
		if err := v.Validate(); err == nil {
			t.Errorf("Case %d: expected validation error for %+v", i, v)
		}
	}
}

func TestEmotionColors_Complete(t *testing.T) {
	all := []Emotion{
		EmotionFear, EmotionExcitement, EmotionSadness, EmotionJoy,
		EmotionAnger, EmotionDisgust, EmotionSurprise, EmotionCalm,
	}

	for _, em := range all {
		if !em.IsValid() {
			t.Errorf("Expected %s to be valid", em)
		}
		if ColorFor(em) == "" {
			t.Errorf("Expected color for %s", em)
		}
	}

	if Emotion("panic").IsValid() {
		t.Error("Expected unknown emotion to be invalid")
	}
}
