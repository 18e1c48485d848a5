package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExample(t *testing.T) {
	ex, err := ParseExample("Bangla: আমি ভাত খাই।\nKorean: 저는 밥을 먹어요.")
	require.NoError(t, err)
	assert.Equal(t, "আমি ভাত খাই।", ex.Bangla)
	assert.Equal(t, "저는 밥을 먹어요.", ex.Korean)

	ex, err = ParseExample("Sure!\n**Bangla:** বই\n\n**Korean:** 책\n")
	require.NoError(t, err)
	assert.Equal(t, "বই", ex.Bangla)
	assert.Equal(t, "책", ex.Korean)
}

func TestParseExampleMalformed(t *testing.T) {
	_, err := ParseExample("I cannot help with that.")
	assert.ErrorIs(t, err, ErrMalformedAIResponse)

	_, err = ParseExample("Bangla: বই")
	assert.ErrorIs(t, err, ErrMalformedAIResponse)
}

func TestBuildExampleMessages(t *testing.T) {
	msgs := BuildExampleMessages("বই", "책")
	require.Len(t, msgs, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, `using "বই"`)
	assert.Contains(t, msgs[0].Content, `using "책"`)
}

func TestGenerateExample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: "Bangla: এটা আমার বই।\nKorean: 이것은 제 책이에요.",
				},
			}},
		})
	}))
	defer srv.Close()

	ex, err := NewExampleService("key", srv.URL, "m").GenerateExample(context.Background(), "বই", "책")
	require.NoError(t, err)
	assert.Equal(t, "এটা আমার বই।", ex.Bangla)
	assert.Equal(t, "이것은 제 책이에요.", ex.Korean)
}
