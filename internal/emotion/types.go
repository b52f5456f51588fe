package emotion

import "fmt"

// Emotion представляет одно из закрытого набора эмоциональных состояний
type Emotion string

const (
	EmotionFear       Emotion = "fear"
	EmotionExcitement Emotion = "excitement"
	EmotionSadness    Emotion = "sadness"
	EmotionJoy        Emotion = "joy"
	EmotionAnger      Emotion = "anger"
	EmotionDisgust    Emotion = "disgust"
	EmotionSurprise   Emotion = "surprise"
	EmotionCalm       Emotion = "calm"
)

// emotionColors - фиксированное соответствие эмоция -> hex-цвет
var emotionColors = map[Emotion]string{
	EmotionFear:       "#8b0000",
	EmotionExcitement: "#ff6b35",
	EmotionSadness:    "#4a90e2",
	EmotionJoy:        "#ffd700",
	EmotionAnger:      "#dc2626",
	EmotionDisgust:    "#16a34a",
	EmotionSurprise:   "#a855f7",
	EmotionCalm:       "#10b981",
}

// IsValid проверяет принадлежность к закрытому набору
func (e Emotion) IsValid() bool {
	_, ok := emotionColors[e]
	return ok
}

// ColorFor возвращает фиксированный цвет эмоции
func ColorFor(e Emotion) string {
	return emotionColors[e]
}

// Verdict представляет результат классификации эмоции.
// Неизменяем после создания; создается один раз на каждое срабатывание
// триггера - либо моделью, либо детерминированным фолбэком.
type Verdict struct {
	Emotion          Emotion `json:"emotion"`
	Arousal          float64 `json:"arousal"`
	Valence          float64 `json:"valence"`
	Confidence       float64 `json:"confidence"`
	Color            string  `json:"color"`
	Reasoning        string  `json:"reasoning"`
	SceneDescription string  `json:"sceneDescription,omitempty"`
}

// Validate проверяет вердикт как недоверенный ввод: закрытый набор эмоций,
// числовые диапазоны и соответствие цвета эмоции. Ответ модели, не прошедший
// проверку, отбрасывается в пользу фолбэка. Вердикт не изменяется.
func (v Verdict) Validate() error {
	if !v.Emotion.IsValid() {
		return fmt.Errorf("unknown emotion: %q", v.Emotion)
	}
	if v.Arousal < 0 || v.Arousal > 1 {
		return fmt.Errorf("arousal out of range [0,1]: %f", v.Arousal)
	}
	if v.Valence < -1 || v.Valence > 1 {
		return fmt.Errorf("valence out of range [-1,1]: %f", v.Valence)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence out of range [0,1]: %f", v.Confidence)
	}
	if v.Color != "" && v.Color != ColorFor(v.Emotion) {
		return fmt.Errorf("color %q does not match emotion %q", v.Color, v.Emotion)
	}
	return nil
}

// Input содержит данные для одного запроса классификации
type Input struct {
	CurrentBPM        int
	History           []int // Пульс в порядке поступления, самое свежее - последним
	VideoTimestampSec float64
}

// Stats - описательные статистики по истории пульса
type Stats struct {
	AvgBPM int // Округленное среднее по истории
	Trend  int // Разница последнего значения и значения 3 отсчета назад
	Delta  int // Отклонение текущего пульса от базовой линии
}

// ComputeStats вычисляет статистики для промпта и фолбэка
func ComputeStats(in Input, baselineBPM int) Stats {
	avg := in.CurrentBPM
	if len(in.History) > 0 {
		sum := 0
		for _, bpm := range in.History {
			sum += bpm
		}
		avg = int(float64(sum)/float64(len(in.History)) + 0.5)
	}

	trend := 0
	if len(in.History) >= 3 {
		trend = in.History[len(in.History)-1] - in.History[len(in.History)-3]
	}

	return Stats{
		AvgBPM: avg,
		Trend:  trend,
		Delta:  in.CurrentBPM - baselineBPM,
	}
}
