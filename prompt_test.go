package souschef

import (
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	require.Zero(t, CountTokens())
	require.Zero(t, CountTokens(openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}))

	short := CountTokens(user("pasta"))
	long := CountTokens(user("pasta with garlic, olive oil, and chili flakes"))
	require.Greater(t, short, 0)
	require.Greater(t, long, short)
}

func TestEllipse(t *testing.T) {
	require.Equal(t, "soup", Ellipse("soup", 10))

	s := strings.Repeat("chop the onions finely ", 100)
	truncated := Ellipse(s, 10)
	require.Less(t, len(truncated), len(s))
	require.True(t, strings.HasSuffix(truncated, "..."))
}

func TestTrimHistory(t *testing.T) {
	long := strings.Repeat("simmer the stock gently ", 50)

	t.Run("under budget unchanged", func(t *testing.T) {
		history := []openai.ChatCompletionMessage{user("pasta"), user("soup")}
		require.Equal(t, history, TrimHistory(history, 1000))
	})

	t.Run("drops oldest first", func(t *testing.T) {
		history := []openai.ChatCompletionMessage{
			user(long),
			user(long),
			user("what about dessert?"),
		}
		budget := CountTokens(history[1:]...)
		trimmed := TrimHistory(history, budget)
		require.Equal(t, history[1:], trimmed)
		require.LessOrEqual(t, CountTokens(trimmed...), budget)
	})

	t.Run("keeps leading system message", func(t *testing.T) {
		history := []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "custom prompt"},
			user(long),
			user(long),
			user("what about dessert?"),
		}
		budget := CountTokens(history[0]) + CountTokens(history[3]) + 1
		trimmed := TrimHistory(history, budget)
		require.Equal(t, []openai.ChatCompletionMessage{history[0], history[3]}, trimmed)
	})

	t.Run("budget smaller than any turn", func(t *testing.T) {
		history := []openai.ChatCompletionMessage{user(long), user(long)}
		trimmed := TrimHistory(history, 1)
		require.Empty(t, trimmed)
	})
}

func TestSystemPromptShape(t *testing.T) {
	// The prompt drives Markdown-structured recipes; the section headings it
	// demands are what the CLI renderer relies on.
	require.Contains(t, SystemPrompt, "### Ingredients")
	require.Contains(t, SystemPrompt, "### Instructions")
	require.Contains(t, SystemPrompt, "Level 2 Heading")
}
