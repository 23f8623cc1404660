package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burn-ops-service/internal/config"
	"github.com/burn-ops-service/internal/domain"
)

func TestClient_Complete(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req completionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Equal(t, domain.ChatSystem, req.Messages[0].Role)
			require.NotNil(t, req.Temperature)
			assert.Equal(t, 0.7, *req.Temperature)
			assert.Equal(t, 1500, req.MaxTokens)

			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Rischio: **Medio**"}}]}`))
		}))
		defer server.Close()

		c := NewClient(&config.GroqConfig{
			APIKey:         "test-key",
			BaseURL:        server.URL + "/",
			Model:          "llama-3.3-70b-versatile",
			RequestTimeout: 5,
		}, logger)

		temp := 0.7
		text, err := c.Complete(context.Background(), []domain.ChatMessage{
			{Role: domain.ChatSystem, Content: "istruttore"},
			{Role: domain.ChatUser, Content: "Che cos'è il CPS?"},
		}, domain.CompletionOptions{Temperature: &temp, MaxTokens: 1500})
		require.NoError(t, err)
		assert.Equal(t, "Rischio: **Medio**", text)
	})

	t.Run("disabled without key", func(t *testing.T) {
		c := NewClient(&config.GroqConfig{BaseURL: "http://unused"}, logger)
		assert.False(t, c.Enabled())

		_, err := c.Complete(context.Background(), nil, domain.CompletionOptions{})
		assert.ErrorIs(t, err, domain.ErrServiceDisabled)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limit"}}`))
		}))
		defer server.Close()

		c := NewClient(&config.GroqConfig{APIKey: "k", BaseURL: server.URL, Model: "m", RequestTimeout: 5}, logger)
		_, err := c.Complete(context.Background(), []domain.ChatMessage{{Role: domain.ChatUser, Content: "x"}}, domain.CompletionOptions{})
		assert.Error(t, err)
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		c := NewClient(&config.GroqConfig{APIKey: "k", BaseURL: server.URL, Model: "m", RequestTimeout: 5}, logger)
		_, err := c.Complete(context.Background(), []domain.ChatMessage{{Role: domain.ChatUser, Content: "x"}}, domain.CompletionOptions{})
		assert.Error(t, err)
	})
}
