package emotion

import "fmt"

// Fallback возвращает детерминированный вердикт по одним лишь статистикам
// пульса. Терминальный путь восстановления для классификатора: чистая
// функция, не может завершиться ошибкой.
func Fallback(in Input, baselineBPM int) Verdict {
	stats := ComputeStats(in, baselineBPM)

	var em Emotion
	switch {
	case stats.Trend > 10:
		em = EmotionSurprise
	case stats.Trend < -10:
		em = EmotionCalm
	case stats.Delta > 20:
		em = EmotionExcitement
	case stats.Delta < -10:
		em = EmotionCalm
	default:
		em = EmotionSurprise
	}

	absDelta := stats.Delta
	if absDelta < 0 {
		absDelta = -absDelta
	}
	arousal := float64(absDelta) / 40
	if arousal > 1 {
		arousal = 1
	}

	valence := -0.3
	if stats.Delta > 0 {
		valence = 0.3
	}

	return Verdict{
		Emotion:          em,
		Arousal:          arousal,
		Valence:          valence,
		Confidence:       0.5,
		Color:            ColorFor(em),
		Reasoning:        "Using BPM-only fallback analysis due to classification failure",
		SceneDescription: fmt.Sprintf("Unable to analyze - at %s with %d BPM", formatTimestamp(in.VideoTimestampSec), in.CurrentBPM),
	}
}
