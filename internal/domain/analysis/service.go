package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"matchpulse/analysis-api/internal/domain/llm"
	"matchpulse/analysis-api/internal/infrastructure/metrics"
)

const (
	unfilteredListLimit = 100
	filteredListLimit   = 200
	degradedInputMax    = 1000
)

// AnalyzeInput carries one analysis request.
type AnalyzeInput struct {
	Sport       string
	DataText    string
	Model       string
	Temperature *float64
}

// Response is the caller-facing analysis outcome. OK is unconditionally true:
// upstream and persistence failures degrade, they do not fail the request.
type Response struct {
	ID        *uint     `json:"id"`
	Sport     Sport     `json:"sport"`
	CreatedAt time.Time `json:"createdAt"`
	OK        bool      `json:"ok"`
	Result    Result    `json:"result"`
	Summary   string    `json:"summary"`
	Persisted bool      `json:"persisted"`
}

// Detail is the full view of a stored record.
type Detail struct {
	ID        uint      `json:"id"`
	Sport     Sport     `json:"sport"`
	CreatedAt time.Time `json:"createdAt"`
	QueryText string    `json:"queryText"`
	Result    any       `json:"result"`
}

// Service orchestrates sport analysis: prompt build, completion, repair,
// best-effort persistence.
type Service struct {
	completer llm.Completer
	repo      Repository
	overrides PromptOverrides
	logger    zerolog.Logger
}

// NewService wires the analysis service.
func NewService(completer llm.Completer, repo Repository, overrides PromptOverrides, logger zerolog.Logger) *Service {
	return &Service{
		completer: completer,
		repo:      repo,
		overrides: overrides,
		logger:    logger,
	}
}

// Analyze runs one structured analysis. Only an invalid sport is surfaced as
// an error; everything else degrades into a populated Result.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (*Response, error) {
	sport, err := ParseSport(ctx, in.Sport)
	if err != nil {
		return nil, err
	}

	result, degraded := s.callModel(ctx, sport, in)
	metrics.RecordAnalysis(string(sport), degraded)
	createdAt := time.Now().UTC()

	response := &Response{
		Sport:     sport,
		CreatedAt: createdAt,
		OK:        true,
		Result:    result,
		Summary:   result.Summary,
	}

	resultJSON, err := json.Marshal(result)
	if err == nil {
		record, persistErr := s.repo.Create(ctx, sport, in.DataText, string(resultJSON))
		if persistErr != nil {
			metrics.RecordPersistenceFailure("analysis")
			s.logger.Error().Err(persistErr).Str("sport", string(sport)).Msg("analysis persist failed")
		} else {
			response.ID = &record.ID
			response.CreatedAt = record.CreatedAt
			response.Persisted = true
		}
	}

	return response, nil
}

func (s *Service) callModel(ctx context.Context, sport Sport, in AnalyzeInput) (Result, bool) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: s.overrides.SystemPrompt(sport)},
		{Role: openai.ChatMessageRoleUser, Content: "比赛资料：\n" + in.DataText},
	}

	raw, err := s.completer.ChatCompletion(ctx, messages, llm.ChatOptions{
		Model:       in.Model,
		Temperature: in.Temperature,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("sport", string(sport)).Msg("completion failed, returning degraded analysis")
		return degradedResult(err, in.DataText), true
	}

	return Normalize(raw), false
}

// degradedResult is the hand-authored substitute returned when the upstream
// call fails, embedding the failure and a bounded slice of the input.
func degradedResult(callErr error, dataText string) Result {
	return Result{
		Summary: "模型暂不可用，已返回兜底分析要点。",
		Angles: map[string]string{
			"schedule_motivation":  "依据文本做粗略判断，注意不确定性。",
			"tactics_style":        "从描述中提炼攻守与对位线索，仅供参考。",
			"referee":              "未获取裁判信息，建议赛前复核。",
			"bookmaker_psychology": "警惕盘赔变化与大众情绪陷阱。",
			"betting_volume":       "控制仓位，避免情绪化追单。",
		},
		DeepAnalysis: fmt.Sprintf(
			"模型调用失败（%s）。以下为基于输入文本的通用分析框架与风险提示：\n%s",
			callErr.Error(), truncateRunes(dataText, degradedInputMax),
		),
		Predictions:   Predictions{Score: "N/A", TrendNote: "N/A"},
		BettingAdvice: "建议观望或小仓位试探，严格止损。",
		Probability:   0.5,
		Disclaimers:   DisclaimerNotice,
	}
}

// ListResults returns stored analyses newest first. Without a sport filter
// both tables contribute up to 100 rows each before the merged sort; with a
// filter a single table contributes up to 200.
func (s *Service) ListResults(ctx context.Context, sport *Sport) ([]ListItem, error) {
	if sport != nil {
		records, err := s.repo.ListBySport(ctx, *sport, filteredListLimit)
		if err != nil {
			return nil, err
		}
		return toListItems(records), nil
	}

	football, err := s.repo.ListBySport(ctx, SportFootball, unfilteredListLimit)
	if err != nil {
		return nil, err
	}
	basketball, err := s.repo.ListBySport(ctx, SportBasketball, unfilteredListLimit)
	if err != nil {
		return nil, err
	}

	items := toListItems(append(football, basketball...))
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// GetResult looks a record up by raw primary key. Returns nil when neither
// table has the id.
func (s *Service) GetResult(ctx context.Context, id uint) (*Detail, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	var result any
	if err := json.Unmarshal([]byte(record.ResultJSON), &result); err != nil {
		result = map[string]any{"raw": record.ResultJSON}
	}

	return &Detail{
		ID:        record.ID,
		Sport:     record.Sport,
		CreatedAt: record.CreatedAt,
		QueryText: record.QueryText,
		Result:    result,
	}, nil
}

func toListItems(records []Record) []ListItem {
	items := make([]ListItem, 0, len(records))
	for _, record := range records {
		items = append(items, ListItem{
			ID:        record.ID,
			Sport:     record.Sport,
			Summary:   summaryFromJSON(record.ResultJSON),
			CreatedAt: record.CreatedAt,
		})
	}
	return items
}

func summaryFromJSON(resultJSON string) string {
	var fields struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(resultJSON), &fields); err != nil {
		return ""
	}
	return fields.Summary
}
