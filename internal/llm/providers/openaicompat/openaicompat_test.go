package openaicompat_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/providers/openaicompat"
)

func TestPresetResolution(t *testing.T) {
	p, err := openaicompat.New(&openaicompat.Config{Preset: "Groq", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "Groq", p.Name())
	assert.Equal(t, "llama-3.3-70b-versatile", p.Model())
	assert.Equal(t, 2, p.Priority())

	p, err = openaicompat.New(&openaicompat.Config{Preset: "openrouter", Model: "custom/model"})
	require.NoError(t, err)
	assert.Equal(t, "OpenRouter", p.Name())
	assert.Equal(t, "custom/model", p.Model())

	_, err = openaicompat.New(&openaicompat.Config{Preset: "unknown"})
	assert.True(t, errors.IsInvalidArgument(err))

	p, err = openaicompat.New(&openaicompat.Config{BaseURL: "http://localhost:9999/v1", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, openaicompat.DefaultName, p.Name())
}

func TestWithoutKeyNeverCallsOut(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	p, err := openaicompat.New(&openaicompat.Config{BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	assert.True(t, errors.IsUnavailable(p.Probe(context.Background())))
	_, err = p.Generate(context.Background(), llm.NewRequest("sys"))
	assert.True(t, errors.IsUnavailable(err))
	assert.Equal(t, int32(0), hits.Load())
}

func TestProbeAndGenerateSendBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/v1/models":
			_, _ = io.WriteString(w, `{"data":[]}`)
		case "/v1/chat/completions":
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "m", gjson.GetBytes(body, "model").String())
			_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Agreed."}}],"usage":{"prompt_tokens":10,"completion_tokens":2}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p, err := openaicompat.New(&openaicompat.Config{BaseURL: srv.URL + "/v1", APIKey: "secret", Model: "m"})
	require.NoError(t, err)

	require.NoError(t, p.Probe(context.Background()))

	res, err := p.Generate(context.Background(), llm.NewRequest("sys", llm.Message{Role: llm.RoleUser, Content: "hi"}))
	require.NoError(t, err)
	assert.Equal(t, "Agreed.", res.Content)
	assert.Equal(t, "m", res.Model)
	assert.Equal(t, 12, res.TotalTokens())
}

func TestRejectedKeyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p, err := openaicompat.New(&openaicompat.Config{BaseURL: srv.URL, APIKey: "bad", Model: "m"})
	require.NoError(t, err)

	assert.True(t, errors.IsUnavailable(p.Probe(context.Background())))
}
