package llmgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchpulse/analysis-api/internal/domain/llm"
	"matchpulse/analysis-api/internal/utils/platformerrors"
)

func completionResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Config{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "ep-default",
		Temperature: 0.2,
		MaxTokens:   512,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{BaseURL: "https://example.com/api/v3"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeConfiguration))
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestChatCompletionPrimaryPath(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(completionResponse("你好"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api/v3")

	text, err := client.ChatCompletion(context.Background(),
		[]openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
		llm.ChatOptions{})
	require.NoError(t, err)

	assert.Equal(t, "你好", text)
	assert.Equal(t, "/api/v3/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "ep-default", gotReq.Model)
	assert.EqualValues(t, 512, gotReq.MaxTokens)
}

func TestChatCompletionFallsBackToAlternatePath(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/v3/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(completionResponse("fallback ok"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api/v3")

	text, err := client.ChatCompletion(context.Background(),
		[]openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
		llm.ChatOptions{})
	require.NoError(t, err)

	assert.Equal(t, "fallback ok", text)
	assert.Equal(t, []string{"/api/v3/chat/completions", "/openai/v1/chat/completions"}, paths)
}

func TestChatCompletionBothPathsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api/v3")

	_, err := client.ChatCompletion(context.Background(),
		[]openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
		llm.ChatOptions{})
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeUpstream))
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api/v3")

	_, err := client.ChatCompletion(context.Background(),
		[]openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
		llm.ChatOptions{})
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeUpstream))
}

func TestChatCompletionAppliesOverrides(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(completionResponse("ok"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api/v3")

	temperature := 0.8
	_, err := client.ChatCompletion(context.Background(),
		[]openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
		llm.ChatOptions{Model: "ep-override", Temperature: &temperature, MaxTokens: 128})
	require.NoError(t, err)

	assert.Equal(t, "ep-override", gotReq.Model)
	assert.InDelta(t, 0.8, gotReq.Temperature, 1e-6)
	assert.EqualValues(t, 128, gotReq.MaxTokens)
}
