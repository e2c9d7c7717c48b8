package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashgen-api/errs"
)

func newOpenAITestServer(t *testing.T, content string, status int) (*httptest.Server, *openai.ChatCompletionRequest) {
	t.Helper()
	var captured openai.ChatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "upstream failure", "type": "server_error"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": content},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func testOpenAICompleter(srv *httptest.Server) *OpenAICompleter {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOpenAICompleterWithConfig(cfg, "")
}

func TestOpenAICompleter_Complete(t *testing.T) {
	srv, captured := newOpenAITestServer(t, `{"flashcards": []}`, http.StatusOK)
	completer := testOpenAICompleter(srv)

	out, err := completer.Complete(context.Background(), "prompt text")

	require.NoError(t, err)
	assert.Equal(t, `{"flashcards": []}`, out)
	assert.Equal(t, openai.GPT4oMini, captured.Model)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "prompt text", captured.Messages[0].Content)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, captured.ResponseFormat.Type)
}

func TestOpenAICompleter_EndToEndThroughGenerator(t *testing.T) {
	want := sampleCards(CardCount)
	srv, _ := newOpenAITestServer(t, cardsJSON(t, want), http.StatusOK)
	gen := New(testOpenAICompleter(srv), BreakerConfig{})

	got, err := gen.Generate(context.Background(), "Photosynthesis converts light into energy.")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpenAICompleter_ServerError(t *testing.T) {
	srv, _ := newOpenAITestServer(t, "", http.StatusInternalServerError)
	gen := New(testOpenAICompleter(srv), BreakerConfig{})

	_, err := gen.Generate(context.Background(), "some text")

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrDownstream)
}
