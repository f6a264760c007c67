package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DisclaimerNotice is the fixed risk notice applied whenever the model
	// omits its own.
	DisclaimerNotice = "AI 生成内容仅供参考，不构成投资建议。"

	unstructuredAdvice = "请谨慎，模型未返回结构化结果。"
	fallbackSummaryMax = 2000
)

// Normalize repairs raw model output into a fully populated Result. It is
// idempotent: normalizing a serialized Result yields the same Result.
func Normalize(raw string) Result {
	fields, ok := parseObject(raw)
	if !ok {
		trimmed := strings.TrimSpace(raw)
		fields = map[string]any{
			"summary":        truncateRunes(trimmed, fallbackSummaryMax),
			"angles":         map[string]any{},
			"deep_analysis":  trimmed,
			"predictions":    map[string]any{"score": "N/A", "trend_note": "N/A"},
			"betting_advice": unstructuredAdvice,
			"probability":    0.5,
			"disclaimers":    DisclaimerNotice,
		}
	}
	return coerce(fields)
}

// parseObject tries a strict parse of the full text, then the substring
// between the first '{' and the last '}'.
func parseObject(raw string) (map[string]any, bool) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err == nil {
		return fields, true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func coerce(fields map[string]any) Result {
	result := Result{
		Summary:       stringField(fields["summary"]),
		Angles:        anglesField(fields["angles"]),
		DeepAnalysis:  stringField(fields["deep_analysis"]),
		Predictions:   predictionsField(fields["predictions"]),
		BettingAdvice: stringField(fields["betting_advice"]),
		Probability:   probabilityField(fields["probability"]),
		Disclaimers:   stringField(fields["disclaimers"]),
	}
	if result.Disclaimers == "" {
		result.Disclaimers = DisclaimerNotice
	}
	return result
}

func stringField(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func anglesField(value any) map[string]string {
	angles := make(map[string]string)
	if object, ok := value.(map[string]any); ok {
		for key, v := range object {
			angles[key] = stringField(v)
		}
	}
	return angles
}

func predictionsField(value any) Predictions {
	switch v := value.(type) {
	case nil:
		return Predictions{}
	case map[string]any:
		return Predictions{
			Score:     stringField(v["score"]),
			TrendNote: stringField(v["trend_note"]),
		}
	default:
		// Non-object predictions are stringified into the score slot.
		return Predictions{Score: stringField(v)}
	}
}

func probabilityField(value any) float64 {
	var probability float64
	switch v := value.(type) {
	case nil:
		probability = 0.5
	case float64:
		probability = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0.5
		}
		probability = parsed
	default:
		return 0.5
	}

	if probability < 0 {
		return 0
	}
	if probability > 1 {
		return 1
	}
	return probability
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
