package emotion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"
)

// Detector классифицирует эмоциональное состояние зрителя через LLM.
// Одна попытка без повторов; любой сбой (сеть, таймаут, некорректный JSON,
// вердикт вне допустимых диапазонов) восстанавливается локально через
// детерминированный фолбэк - вызывающий всегда получает корректный вердикт.
type Detector struct {
	client      *openai.Client
	model       string
	baselineBPM int
}

// NewDetector создает классификатор эмоций
func NewDetector(client *openai.Client, model string, baselineBPM int) *Detector {
	return &Detector{
		client:      client,
		model:       model,
		baselineBPM: baselineBPM,
	}
}

// Classify возвращает вердикт для переданных данных пульса.
// Не возвращает ошибку: при сбое классификации используется фолбэк.
func (d *Detector) Classify(ctx context.Context, in Input) Verdict {
	verdict, err := d.classify(ctx, in)
	if err != nil {
		log.Printf("[EMOTION] Classification failed, using fallback: %v", err)
		return Fallback(in, d.baselineBPM)
	}
	return verdict
}

func (d *Detector) classify(ctx context.Context, in Input) (Verdict, error) {
	if d.client == nil {
		return Verdict{}, errors.New("detector: client is nil")
	}
	if d.model == "" {
		return Verdict{}, errors.New("detector: model is empty")
	}

	stats := ComputeStats(in, d.baselineBPM)
	prompt := buildPrompt(in, stats)

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "EmotionVerdict",
			Schema:      verdictSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Emotion classification JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           d.model,
		MaxOutputTokens: openai.Int(600),
		Instructions:    openai.String(detectorInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := d.client.Responses.New(ctx, params)
	if err != nil {
		return Verdict{}, fmt.Errorf("model call failed: %w", err)
	}

	var verdict Verdict
	if err := decodeModelJSON(resp.OutputText(), &verdict); err != nil {
		return Verdict{}, fmt.Errorf("failed to decode model output: %w", err)
	}

	// Ответ модели - недоверенный ввод
	if err := verdict.Validate(); err != nil {
		return Verdict{}, fmt.Errorf("model output rejected: %w", err)
	}

	// Цвет всегда канонический, даже если модель его опустила
	verdict.Color = ColorFor(verdict.Emotion)

	return verdict, nil
}
