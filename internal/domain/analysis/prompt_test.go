package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPromptBuiltinDefault(t *testing.T) {
	var overrides PromptOverrides

	assert.Equal(t, footballSystemPrompt, overrides.SystemPrompt(SportFootball))
	assert.Equal(t, basketballSystemPrompt, overrides.SystemPrompt(SportBasketball))
}

func TestSystemPromptFileWinsOverText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "football.txt")
	require.NoError(t, os.WriteFile(path, []byte("来自文件的提示词"), 0o600))

	overrides := PromptOverrides{FootballFile: path, FootballText: "来自环境变量的提示词"}

	assert.Equal(t, "来自文件的提示词", overrides.SystemPrompt(SportFootball))
	assert.Equal(t, basketballSystemPrompt, overrides.SystemPrompt(SportBasketball))
}

func TestSystemPromptUnreadableFileFallsBackToText(t *testing.T) {
	overrides := PromptOverrides{
		BasketballFile: filepath.Join(t.TempDir(), "missing.txt"),
		BasketballText: "文本覆盖",
	}

	assert.Equal(t, "文本覆盖", overrides.SystemPrompt(SportBasketball))
}

func TestSystemPromptBlankTextIgnored(t *testing.T) {
	overrides := PromptOverrides{FootballText: "   \n"}

	assert.Equal(t, footballSystemPrompt, overrides.SystemPrompt(SportFootball))
}
