package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtblnchrd-eng/AutoContent/internal/config"
	"github.com/jtblnchrd-eng/AutoContent/internal/ratelimit"
)

type scripted struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scripted) Complete(_ context.Context, _ Request) (string, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	reply := ""
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	return reply, err
}

func TestResilient_RetriesOnceOnError(t *testing.T) {
	next := &scripted{
		replies: []string{"", "3"},
		errs:    []error{errors.New("timeout"), nil},
	}
	r := NewResilient(next, nil, 0)

	out, err := r.Complete(context.Background(), Request{Purpose: "select"})
	require.NoError(t, err)
	assert.Equal(t, "3", out)
	assert.Equal(t, 2, next.calls)
}

func TestResilient_EmptyResponseIsRetried(t *testing.T) {
	next := &scripted{replies: []string{"  ", "  \n"}}
	r := NewResilient(next, nil, 0)

	_, err := r.Complete(context.Background(), Request{Purpose: "generate"})
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, 2, next.calls)
}

func TestResilient_AtMostTwoAttempts(t *testing.T) {
	boom := errors.New("connection refused")
	next := &scripted{errs: []error{boom, boom, boom}}
	r := NewResilient(next, nil, 0)

	_, err := r.Complete(context.Background(), Request{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, next.calls)
}

func TestResilient_BudgetExhaustedNotRetried(t *testing.T) {
	budget := ratelimit.NewLLMBudget(1)
	require.NoError(t, budget.Use("select"))

	next := &scripted{replies: []string{"never"}}
	r := NewResilient(next, budget, time.Hour)

	_, err := r.Complete(context.Background(), Request{Purpose: "generate"})
	require.ErrorIs(t, err, ratelimit.ErrBudgetExhausted)
	assert.Equal(t, 0, next.calls)
}

func TestResilient_EachAttemptUsesBudget(t *testing.T) {
	budget := ratelimit.NewLLMBudget(0)
	next := &scripted{errs: []error{errors.New("503"), nil}, replies: []string{"", "ok"}}
	r := NewResilient(next, budget, 0)

	_, err := r.Complete(context.Background(), Request{Purpose: "generate"})
	require.NoError(t, err)
	assert.Equal(t, 2, budget.GetStats()["llm_used"])
}

func newChatServer(t *testing.T, content string, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/models":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"local-model","object":"model"}]}`))
		case "/v1/chat/completions":
			atomic.AddInt32(hits, 1)
			var body struct {
				Model     string `json:"model"`
				MaxTokens int    `json:"max_tokens"`
				Messages  []struct {
					Role string `json:"role"`
				} `json:"messages"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "local-model", body.Model)
			assert.Equal(t, 50, body.MaxTokens)
			if assert.Len(t, body.Messages, 2) {
				assert.Equal(t, "system", body.Messages[0].Role)
			}

			resp := map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion",
				"choices": []any{map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestOpenAIClient_Complete(t *testing.T) {
	var hits int32
	srv := newChatServer(t, "Story 2 is best", &hits)
	defer srv.Close()

	c := NewOpenAIClient(srv.URL+"/v1/", "lm-studio", "local-model")
	out, err := c.Complete(context.Background(), Request{
		System:      "You pick stories.",
		Prompt:      "1. A\n2. B",
		MaxTokens:   50,
		Temperature: 0.4,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "Story 2 is best", out)
	assert.EqualValues(t, 1, hits)
}

func TestOpenAIClient_Probe(t *testing.T) {
	var hits int32
	srv := newChatServer(t, "", &hits)
	defer srv.Close()

	c := NewOpenAIClient(srv.URL+"/v1", "lm-studio", "local-model")
	require.NoError(t, Probe(context.Background(), c, time.Second))

	srv.Close()
	require.Error(t, Probe(context.Background(), c, time.Second))
}

func TestNewFromConfig_OpenAI(t *testing.T) {
	cfg := &config.Config{
		LLMProvider: config.ProviderOpenAI,
		LLMBaseURL:  "http://localhost:1234/v1",
		LLMAPIKey:   "lm-studio",
		LLMModel:    "local-model",
	}
	c, closeFn, err := NewFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NotNil(t, closeFn)
	closeFn()
}

func TestNewFromConfig_Gemini(t *testing.T) {
	cfg := &config.Config{
		LLMProvider:  config.ProviderGemini,
		GeminiAPIKey: "test-key",
		GeminiModel:  "gemini-1.5-flash",
	}
	c, closeFn, err := NewFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, c)
	_, ok := c.next.(*GeminiClient)
	assert.True(t, ok)
	closeFn()
}
