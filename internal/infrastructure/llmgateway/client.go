package llmgateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"matchpulse/analysis-api/internal/domain/llm"
	"matchpulse/analysis-api/internal/infrastructure/httpclients"
	"matchpulse/analysis-api/internal/infrastructure/metrics"
	"matchpulse/analysis-api/internal/utils/platformerrors"
)

const (
	completionPath = "/chat/completions"
	// Some gateways only expose the OpenAI-compatible surface; derived from
	// the base URL by stripping a trailing /api/v3.
	alternatePrefix = "/openai/v1"
	apiV3Suffix     = "/api/v3"
)

// Config holds the environment-resolved gateway settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client calls a remote OpenAI-compatible chat completion endpoint. One
// automatic endpoint-path fallback, no retry loop.
type Client struct {
	client      *resty.Client
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
}

var _ llm.Completer = (*Client)(nil)

// New constructs the gateway client. A missing API key is a configuration
// error here, not at call time.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration, "missing LLM_API_KEY in environment", nil)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := httpclients.NewClient("LLMGateway")
	client.SetTimeout(timeout)
	client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))

	return &Client{
		client:      client,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// ChatCompletion implements llm.Completer. It tries the primary completion
// path, then the derived alternate path once, and classifies the combined
// failure as an upstream error.
func (c *Client) ChatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage, opts llm.ChatOptions) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(c.temperature),
		MaxTokens:   c.maxTokens,
	}
	if opts.Model != "" {
		request.Model = opts.Model
	}
	if opts.Temperature != nil {
		request.Temperature = float32(*opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		request.MaxTokens = opts.MaxTokens
	}

	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(request.Model).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for _, url := range []string{c.primaryURL(), c.alternateURL()} {
		text, err := c.post(ctx, url, request)
		metrics.RecordUpstreamCall(url, err)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}

	return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeUpstream, "unexpected response from completion endpoint", lastErr)
}

func (c *Client) post(ctx context.Context, url string, request openai.ChatCompletionRequest) (string, error) {
	var respBody openai.ChatCompletionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&respBody).
		Post(url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("completion request to %s failed: %s", url, resp.Status())
	}
	if len(respBody.Choices) == 0 {
		return "", fmt.Errorf("completion response from %s has no choices", url)
	}
	return respBody.Choices[0].Message.Content, nil
}

func (c *Client) primaryURL() string {
	return c.baseURL + completionPath
}

func (c *Client) alternateURL() string {
	root := strings.TrimSuffix(c.baseURL, apiV3Suffix)
	return root + alternatePrefix + completionPath
}
