package emotion

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// stripFences удаляет markdown-обертку вокруг JSON в ответе модели
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// decodeModelJSON разбирает JSON из ответа модели. Устойчив к markdown-
// оберткам и лишнему тексту вокруг объекта.
func decodeModelJSON(outputText string, v interface{}) error {
	s := stripFences(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	// Быстрый путь: валидный JSON как есть
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	// Фолбэк: извлекаем первый JSON-объект верхнего уровня
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}

	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("failed to unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}
