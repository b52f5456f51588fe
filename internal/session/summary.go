package session

import "math"

// Summary - итог сессии, вычисленный по полному списку точек эмоций
type Summary struct {
	AverageBPM      int            `json:"average_bpm"`
	DominantEmotion string         `json:"dominant_emotion"`
	EmotionSummary  map[string]int `json:"emotion_summary"`
	DurationSec     float64        `json:"duration_sec"`
}

// ComputeSummary вычисляет сводку сессии. Чистая функция от списка точек:
// повторный вызов на тех же данных дает тот же результат.
//
// Доминантная эмоция - эмоция с наибольшим числом вхождений; при равенстве
// побеждает та, что встретилась раньше в порядке поступления. Проценты
// округляются; отсутствующие эмоции в сводку не попадают. Длительность -
// позиция в видео последней точки в порядке поступления.
func ComputeSummary(points []EmotionDataPoint) Summary {
	if len(points) == 0 {
		return Summary{EmotionSummary: map[string]int{}}
	}

	bpmSum := 0
	counts := make(map[string]int)
	var firstSeen []string

	for _, p := range points {
		bpmSum += p.BPM
		if _, ok := counts[p.Emotion]; !ok {
			firstSeen = append(firstSeen, p.Emotion)
		}
		counts[p.Emotion]++
	}

	dominant := firstSeen[0]
	for _, em := range firstSeen {
		if counts[em] > counts[dominant] {
			dominant = em
		}
	}

	total := len(points)
	summary := make(map[string]int, len(counts))
	for em, count := range counts {
		summary[em] = int(math.Round(float64(count) / float64(total) * 100))
	}

	return Summary{
		AverageBPM:      int(math.Round(float64(bpmSum) / float64(total))),
		DominantEmotion: dominant,
		EmotionSummary:  summary,
		DurationSec:     points[len(points)-1].Timestamp,
	}
}
