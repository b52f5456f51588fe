package emotion

import (
	"fmt"
	"strings"
)

// detectorInstructions - системная инструкция для модели
const detectorInstructions = `You are an expert in psychophysiology and film analysis. You analyze a viewer's emotional response to a video by examining their heart rate data and the position in the video. Return only valid JSON matching the requested schema.`

// formatTimestamp форматирует позицию в видео как mm:ss
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// trendWord описывает направление тренда словом для промпта
func trendWord(trend int) string {
	switch {
	case trend > 0:
		return "increasing"
	case trend < 0:
		return "decreasing"
	default:
		return "stable"
	}
}

// buildPrompt собирает запрос к модели из статистик и позиции в видео
func buildPrompt(in Input, stats Stats) string {
	history := in.History
	if len(history) > 10 {
		history = history[len(history)-10:]
	}
	historyParts := make([]string, len(history))
	for i, bpm := range history {
		historyParts[i] = fmt.Sprintf("%d", bpm)
	}

	timeStr := formatTimestamp(in.VideoTimestampSec)

	return fmt.Sprintf(`**YOUR TASK:**
Analyze the viewer's emotional response at this moment of the video.

**VIDEO POSITION:**
- Current timestamp in video: %s (%d seconds)
- Consider what typically happens at this point (beginning, middle, climax, ending)

**HEART RATE DATA:**
- Current BPM: %d
- Recent BPM history (last measurements): [%s]
- Average recent BPM: %d
- Baseline (typical resting): %d BPM
- Change from baseline: %+d BPM
- BPM trend: %s (%+d)

**YOUR ANALYSIS PROCESS:**
1. Analyze the heart rate pattern:
   - Sudden spike = surprise, fear, or excitement
   - Gradual increase = building tension or excitement
   - High sustained = fear, excitement, or anger
   - Decrease = relief, sadness, or calm
   - Low/stable = calm, boredom, or sadness
2. Combine video timing context with the physiological response
3. Distinguish between similar heart rate patterns using context

**OUTPUT FORMAT:**
Return ONLY valid JSON (no markdown, no code blocks, no preamble):

{
  "emotion": "fear|excitement|sadness|joy|anger|disgust|surprise|calm",
  "arousal": 0.85,
  "valence": -0.6,
  "sceneDescription": "Brief inference about the scene at %s",
  "reasoning": "Explain your analysis connecting the timestamp context, heart rate pattern, and chosen emotion",
  "confidence": 0.9,
  "color": "#ef4444"
}

**EMOTION COLORS (use these exactly):**
- fear: "#8b0000"
- excitement: "#ff6b35"
- sadness: "#4a90e2"
- joy: "#ffd700"
- anger: "#dc2626"
- disgust: "#16a34a"
- surprise: "#a855f7"
- calm: "#10b981"`,
		timeStr,
		int(in.VideoTimestampSec),
		in.CurrentBPM,
		strings.Join(historyParts, ", "),
		stats.AvgBPM,
		in.CurrentBPM-stats.Delta,
		stats.Delta,
		trendWord(stats.Trend),
		stats.Trend,
		timeStr,
	)
}
