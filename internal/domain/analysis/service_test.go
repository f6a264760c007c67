package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchpulse/analysis-api/internal/domain/llm"
	"matchpulse/analysis-api/internal/utils/platformerrors"
)

type stubCompleter struct {
	reply    string
	err      error
	messages []openai.ChatCompletionMessage
	opts     llm.ChatOptions
}

func (s *stubCompleter) ChatCompletion(_ context.Context, messages []openai.ChatCompletionMessage, opts llm.ChatOptions) (string, error) {
	s.messages = messages
	s.opts = opts
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type memoryRepo struct {
	records   map[uint]*Record
	nextID    uint
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[uint]*Record{}, nextID: 1}
}

func (m *memoryRepo) Create(_ context.Context, sport Sport, queryText, resultJSON string) (*Record, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	record := &Record{
		ID:         m.nextID,
		Sport:      sport,
		QueryText:  queryText,
		ResultJSON: resultJSON,
		CreatedAt:  time.Now().UTC(),
	}
	m.records[record.ID] = record
	m.nextID++
	return record, nil
}

func (m *memoryRepo) ListBySport(_ context.Context, sport Sport, limit int) ([]Record, error) {
	var out []Record
	for _, record := range m.records {
		if record.Sport == sport && len(out) < limit {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (m *memoryRepo) FindByID(_ context.Context, id uint) (*Record, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return record, nil
}

func TestAnalyzeHappyPath(t *testing.T) {
	completer := &stubCompleter{reply: `{"summary": "主队稳", "probability": 0.66}`}
	repo := newMemoryRepo()
	svc := NewService(completer, repo, PromptOverrides{}, zerolog.Nop())

	resp, err := svc.Analyze(context.Background(), AnalyzeInput{
		Sport:    "football",
		DataText: "主队近期五连胜",
	})
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.True(t, resp.Persisted)
	require.NotNil(t, resp.ID)
	assert.Equal(t, SportFootball, resp.Sport)
	assert.Equal(t, "主队稳", resp.Summary)
	assert.InDelta(t, 0.66, resp.Result.Probability, 1e-9)

	require.Len(t, completer.messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, completer.messages[0].Role)
	assert.Contains(t, completer.messages[1].Content, "比赛资料：\n主队近期五连胜")
}

func TestAnalyzeInvalidSport(t *testing.T) {
	svc := NewService(&stubCompleter{}, newMemoryRepo(), PromptOverrides{}, zerolog.Nop())

	_, err := svc.Analyze(context.Background(), AnalyzeInput{Sport: "cricket"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
}

func TestAnalyzeDegradesOnUpstreamFailure(t *testing.T) {
	completer := &stubCompleter{err: errors.New("upstream exploded")}
	repo := newMemoryRepo()
	svc := NewService(completer, repo, PromptOverrides{}, zerolog.Nop())

	resp, err := svc.Analyze(context.Background(), AnalyzeInput{
		Sport:    "basketball",
		DataText: "客队主力伤停",
	})
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.True(t, resp.Persisted)
	assert.Contains(t, resp.Result.DeepAnalysis, "upstream exploded")
	assert.Contains(t, resp.Result.DeepAnalysis, "客队主力伤停")
	assert.Equal(t, "N/A", resp.Result.Predictions.Score)
	assert.InDelta(t, 0.5, resp.Result.Probability, 1e-9)
	assert.Equal(t, DisclaimerNotice, resp.Result.Disclaimers)
}

func TestAnalyzeSwallowsPersistenceFailure(t *testing.T) {
	completer := &stubCompleter{reply: `{"summary": "ok", "probability": 0.4}`}
	repo := newMemoryRepo()
	repo.createErr = errors.New("db gone")
	svc := NewService(completer, repo, PromptOverrides{}, zerolog.Nop())

	resp, err := svc.Analyze(context.Background(), AnalyzeInput{Sport: "football", DataText: "x"})
	require.NoError(t, err)

	assert.True(t, resp.OK)
	assert.False(t, resp.Persisted)
	assert.Nil(t, resp.ID)
	assert.Equal(t, "ok", resp.Summary)
}

func TestAnalyzePassesModelOverrides(t *testing.T) {
	completer := &stubCompleter{reply: `{"summary": "x"}`}
	svc := NewService(completer, newMemoryRepo(), PromptOverrides{}, zerolog.Nop())

	temperature := 0.9
	_, err := svc.Analyze(context.Background(), AnalyzeInput{
		Sport:       "football",
		DataText:    "y",
		Model:       "ep-custom",
		Temperature: &temperature,
	})
	require.NoError(t, err)

	assert.Equal(t, "ep-custom", completer.opts.Model)
	require.NotNil(t, completer.opts.Temperature)
	assert.InDelta(t, 0.9, *completer.opts.Temperature, 1e-9)
}

func TestListResultsMergesBothSportsNewestFirst(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(&stubCompleter{}, repo, PromptOverrides{}, zerolog.Nop())

	older := &Record{ID: 1, Sport: SportFootball, ResultJSON: `{"summary":"old"}`, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &Record{ID: 2, Sport: SportBasketball, ResultJSON: `{"summary":"new"}`, CreatedAt: time.Now()}
	repo.records[older.ID] = older
	repo.records[newer.ID] = newer

	items, err := svc.ListResults(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint(2), items[0].ID)
	assert.Equal(t, "new", items[0].Summary)
	assert.Equal(t, uint(1), items[1].ID)
}

func TestGetResultMissing(t *testing.T) {
	svc := NewService(&stubCompleter{}, newMemoryRepo(), PromptOverrides{}, zerolog.Nop())

	detail, err := svc.GetResult(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestGetResultParsesStoredJSON(t *testing.T) {
	repo := newMemoryRepo()
	repo.records[7] = &Record{ID: 7, Sport: SportFootball, QueryText: "q", ResultJSON: `{"summary":"s"}`, CreatedAt: time.Now()}
	svc := NewService(&stubCompleter{}, repo, PromptOverrides{}, zerolog.Nop())

	detail, err := svc.GetResult(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "q", detail.QueryText)
	parsed, ok := detail.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "s", parsed["summary"])
}
