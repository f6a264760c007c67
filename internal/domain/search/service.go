package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"matchpulse/analysis-api/internal/domain/llm"
)

const (
	hitLimit       = 10
	excerptRunes   = 600
	urlSnippetMax  = 200
	bodyFetchTopN  = 5
	degradedTitles = 8
)

const synthesisSystemPrompt = "你是一位专业的比赛信息整合者。基于给定的网页标题/摘要/正文片段，" +
	"提炼与这场比赛相关的'预测结果'或'关键信息'，强调来源一致性与不确定性。" +
	"输出 JSON：" +
	"- summary: 200字以内中文摘要（覆盖主流观点与分歧）。" +
	"- bullets: 数组，列出3-8条关键信息或预测（含来源索引）。" +
	"- risks: 数组，给出风险或反例（含来源索引）。" +
	"只输出 JSON。"

// Response is the synthesized search outcome. Summary is the raw model
// text (or a degraded JSON document) and is not re-parsed server side.
type Response struct {
	OK        bool      `json:"ok"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
	Summary   string    `json:"summary"`
	Hits      []Hit     `json:"hits"`
}

// Service resolves queries to web hits and synthesizes them with the
// completion gateway.
type Service struct {
	completer llm.Completer
	fetcher   FetchClient
	logger    zerolog.Logger
}

// NewService wires the search service.
func NewService(completer llm.Completer, fetcher FetchClient, logger zerolog.Logger) *Service {
	return &Service{completer: completer, fetcher: fetcher, logger: logger}
}

// IsURL reports whether the query is a direct page address.
func IsURL(query string) bool {
	s := strings.ToLower(strings.TrimSpace(query))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Search resolves a query into at most ten deduplicated hits. A URL query
// fetches that single page; anything else goes through the engine chain.
// Search never fails: fetch errors collapse to fewer (or zero) hits.
func (s *Service) Search(ctx context.Context, query string) []Hit {
	q := strings.TrimSpace(query)
	if q == "" {
		return []Hit{}
	}

	if IsURL(q) {
		return []Hit{s.urlHit(ctx, q)}
	}

	return dedupe(s.fetcher.EngineResults(ctx, q, hitLimit), hitLimit)
}

func (s *Service) urlHit(ctx context.Context, url string) Hit {
	hit := Hit{Title: url, URL: url}

	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", url).Msg("direct page fetch failed")
		return hit
	}

	if doc.Title != "" {
		hit.Title = doc.Title
	}
	if doc.MetaDescription != "" {
		hit.Snippet = doc.MetaDescription
	} else {
		hit.Snippet = truncateRunes(doc.Text, urlSnippetMax)
	}
	return hit
}

// dedupe keeps the first occurrence of each (title, url) pair, capped at
// limit.
func dedupe(hits []Hit, limit int) []Hit {
	type key struct{ title, url string }
	seen := make(map[key]struct{}, len(hits))
	uniq := make([]Hit, 0, limit)
	for _, h := range hits {
		k := key{strings.TrimSpace(h.Title), strings.TrimSpace(h.URL)}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, h)
		if len(uniq) >= limit {
			break
		}
	}
	return uniq
}

// SearchAndAnalyze runs the full pipeline: hits, page excerpts for the top
// results, one synthesis completion. An upstream failure degrades into a
// hand-built JSON summary; OK stays true either way.
func (s *Service) SearchAndAnalyze(ctx context.Context, query string, temperature *float64) *Response {
	hits := s.Search(ctx, query)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: synthesisSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("比赛问题：%s\n\n相关网页（最多10条）：\n%s", query, s.hitContext(ctx, hits))},
	}

	summary, err := s.completer.ChatCompletion(ctx, messages, llm.ChatOptions{Temperature: temperature})
	if err != nil {
		s.logger.Warn().Err(err).Msg("synthesis completion failed, returning aggregated titles")
		summary = degradedSummary(hits)
	}

	return &Response{
		OK:        true,
		Query:     query,
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
		Hits:      hits,
	}
}

// hitContext renders numbered source blocks for the synthesis prompt,
// fetching body excerpts for the first five hits that carry a URL.
func (s *Service) hitContext(ctx context.Context, hits []Hit) string {
	blocks := make([]string, 0, len(hits))
	for i, hit := range hits {
		block := fmt.Sprintf("[%d] %s\n%s\n%s",
			i+1, strings.TrimSpace(hit.Title), strings.TrimSpace(hit.URL), strings.TrimSpace(hit.Snippet))
		if i < bodyFetchTopN && strings.TrimSpace(hit.URL) != "" {
			if doc, err := s.fetcher.FetchDocument(ctx, hit.URL); err == nil {
				if excerpt := truncateRunes(doc.Text, excerptRunes); excerpt != "" {
					block += "\n" + excerpt
				}
			}
		}
		blocks = append(blocks, block)
	}
	if len(blocks) == 0 {
		return "(无命中)"
	}
	return strings.Join(blocks, "\n\n")
}

func degradedSummary(hits []Hit) string {
	bullets := make([]string, 0, degradedTitles)
	for i, hit := range hits {
		if len(bullets) >= degradedTitles {
			break
		}
		if title := strings.TrimSpace(hit.Title); title != "" {
			bullets = append(bullets, fmt.Sprintf("[%d] %s", i+1, title))
		}
	}

	payload, _ := json.Marshal(map[string]any{
		"summary": "模型暂不可用，以下为直接聚合的网页标题摘要。",
		"bullets": bullets,
		"risks":   []string{"网络检索或模型不可用，建议人工核验来源信息。"},
	})
	return string(payload)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
