package service

import (
	"context"
	"encoding/json"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aiConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
		MaxTokens:      512,
		Temperature:    0.7,
	}
}

func chatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestChatJSONReturnsFirstChoice(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"ok":true}`}},
			},
		})
	})

	svc := NewAIService(aiConfig(srv.URL))
	content, err := svc.ChatJSON(context.Background(), "system prompt", "user prompt")

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, content)
}

func TestChatJSONNon200IsUpstreamError(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	svc := NewAIService(aiConfig(srv.URL))
	_, err := svc.ChatJSON(context.Background(), "s", "p")

	assert.ErrorIs(t, err, util.ErrUpstreamUnavailable)
}

func TestChatJSONProviderErrorField(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[],"error":{"message":"model overloaded"}}`))
	})

	svc := NewAIService(aiConfig(srv.URL))
	_, err := svc.ChatJSON(context.Background(), "s", "p")

	assert.ErrorIs(t, err, util.ErrUpstreamUnavailable)
}

func TestChatJSONEmptyChoicesIsMalformed(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	svc := NewAIService(aiConfig(srv.URL))
	_, err := svc.ChatJSON(context.Background(), "s", "p")

	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestChatJSONInvalidBodyIsMalformed(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	})

	svc := NewAIService(aiConfig(srv.URL))
	_, err := svc.ChatJSON(context.Background(), "s", "p")

	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestChatJSONUnreachableHostIsUpstreamError(t *testing.T) {
	svc := NewAIService(aiConfig("http://127.0.0.1:1"))
	_, err := svc.ChatJSON(context.Background(), "s", "p")

	assert.ErrorIs(t, err, util.ErrUpstreamUnavailable)
}

func TestChatJSONHonorsContextCancellation(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	svc := NewAIService(aiConfig(srv.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ChatJSON(ctx, "s", "p")
	assert.Error(t, err)
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewAIService(config.AIConfig{}).Configured())
	assert.False(t, NewAIService(config.AIConfig{BaseURL: "http://x"}).Configured())
	assert.True(t, NewAIService(aiConfig("http://x")).Configured())
}

func TestUpdateConfigTakesEffect(t *testing.T) {
	svc := NewAIService(config.AIConfig{})
	assert.False(t, svc.Configured())

	svc.UpdateConfig(aiConfig("http://x"))
	assert.True(t, svc.Configured())
}
