package lmstudio_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm"
	"github.com/KirkDiggler/rpg-dialogue/internal/llm/providers/lmstudio"
)

func newProvider(t *testing.T, url, model string) *lmstudio.Provider {
	t.Helper()
	p, err := lmstudio.New(&lmstudio.Config{BaseURL: url, Model: model})
	require.NoError(t, err)
	return p
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":[{"id":"mistral-7b"}]}`)
	}))
	defer srv.Close()

	p := newProvider(t, srv.URL+"/", "")
	assert.NoError(t, p.Probe(context.Background()))
	assert.Equal(t, lmstudio.LoadedModel, p.Model())
	assert.Equal(t, 0, p.Priority())
	assert.Equal(t, 30*time.Second, p.ProbeInterval())
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newProvider(t, url, "").Probe(context.Background())
	assert.True(t, errors.IsUnavailable(err))
}

func TestGenerateOmitsEmptyModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		assert.False(t, gjson.GetBytes(body, "model").Exists())
		assert.Equal(t, "system", gjson.GetBytes(body, "messages.0.role").String())
		assert.Equal(t, "Will you follow me?", gjson.GetBytes(body, "messages.1.content").String())
		assert.Equal(t, int64(256), gjson.GetBytes(body, "max_tokens").Int())
		assert.False(t, gjson.GetBytes(body, "stream").Bool())

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "mistral-7b",
			"choices": []any{map[string]any{"message": map[string]any{"content": " I will. "}}},
			"usage":   map[string]any{"prompt_tokens": 40, "completion_tokens": 3},
		})
	}))
	defer srv.Close()

	req := llm.NewRequest("You are Derthert.", llm.Message{Role: llm.RoleUser, Content: "Will you follow me?"})
	req.MaxTokens = 256

	res, err := newProvider(t, srv.URL, "").Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "I will.", res.Content)
	assert.Equal(t, lmstudio.Name, res.Provider)
	assert.Equal(t, "mistral-7b", res.Model)
	assert.Equal(t, 43, res.TotalTokens())
}

func TestGeneratePinnedModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "llama-3-8b", gjson.GetBytes(body, "model").String())
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Aye."}}]}`)
	}))
	defer srv.Close()

	res, err := newProvider(t, srv.URL, "llama-3-8b").Generate(context.Background(), llm.NewRequest("sys"))
	require.NoError(t, err)
	assert.Equal(t, "llama-3-8b", res.Model)
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newProvider(t, srv.URL, "").Generate(context.Background(), llm.NewRequest("sys"))
	assert.True(t, errors.IsUnavailable(err))
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestGenerateEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":""}}]}`)
	}))
	defer srv.Close()

	_, err := newProvider(t, srv.URL, "").Generate(context.Background(), llm.NewRequest("sys"))
	assert.Error(t, err)
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newProvider(t, srv.URL, "").Generate(ctx, llm.NewRequest("sys"))
	assert.True(t, errors.IsDeadlineExceeded(err))
	assert.Contains(t, err.Error(), "request timed out")
}

func TestNewRequiresURL(t *testing.T) {
	_, err := lmstudio.New(&lmstudio.Config{})
	assert.True(t, errors.IsInvalidArgument(err))
}
