package emotion

import (
	"encoding/json"
	"testing"
)

func TestDecodeModelJSON_Plain(t *testing.T) {
	var v Verdict
	err := decodeModelJSON(`{"emotion":"fear","arousal":0.8,"valence":-0.5,"confidence":0.9}`, &v)
	if err != nil {
		t.Fatalf("Failed to decode plain JSON: %v", err)
	}
	if v.Emotion != EmotionFear {
		t.Errorf("Expected fear, got %s", v.Emotion)
	}
}

func TestDecodeModelJSON_MarkdownFences(t *testing.T) {
	input := "```json\n{\"emotion\":\"calm\",\"arousal\":0.2,\"valence\":0.1,\"confidence\":0.7}\n```"

	var v Verdict
	if err := decodeModelJSON(input, &v); err != nil {
		t.Fatalf("Failed to decode fenced JSON: %v", err)
	}
	if v.Emotion != EmotionCalm {
		t.Errorf("Expected calm, got %s", v.Emotion)
	}
}

func TestDecodeModelJSON_SurroundingText(t *testing.T) {
	input := `Here is the analysis: {"emotion":"joy","arousal":0.6,"valence":0.8,"confidence":0.85} Hope this helps.`

	var v Verdict
	if err := decodeModelJSON(input, &v); err != nil {
		t.Fatalf("Failed to extract JSON object: %v", err)
	}
	if v.Emotion != EmotionJoy {
		t.Errorf("Expected joy, got %s", v.Emotion)
	}
}

func TestDecodeModelJSON_RoundTrip(t *testing.T) {
	original := Verdict{
		Emotion:          EmotionExcitement,
		Arousal:          0.75,
		Valence:          0.4,
		Confidence:       0.85,
		Color:            "#ff6b35",
		Reasoning:        "Steady BPM rise during the chase scene",
		SceneDescription: "Car chase at night",
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal verdict: %v", err)
	}

	var decoded Verdict
	if err := decodeModelJSON(string(data), &decoded); err != nil {
		t.Fatalf("Failed to decode serialized verdict: %v", err)
	}
	if decoded != original {
		t.Errorf("Expected round-trip to reproduce verdict, got %+v", decoded)
	}
}

func TestDecodeModelJSON_Empty(t *testing.T) {
	var v Verdict
	if err := decodeModelJSON("", &v); err == nil {
		t.Error("Expected error for empty output")
	}
	if err := decodeModelJSON("```json\n```", &v); err == nil {
		t.Error("Expected error for fences-only output")
	}
}

func TestDecodeModelJSON_NoObject(t *testing.T) {
	var v Verdict
	if err := decodeModelJSON("sorry, I cannot help with that", &v); err == nil {
		t.Error("Expected error when no JSON object present")
	}
}
