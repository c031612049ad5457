package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"GoPolicyRAG/app/configs"
)

func newTestClient(url string) configs.GenerationConfig {
	return configs.GenerationConfig{
		BaseURL:        url,
		Endpoint:       "/v2/chat/completions",
		Token:          "test-token",
		AppID:          "app-test",
		Model:          "ernie-3.5-8k",
		TimeoutSeconds: 5,
	}
}

func TestGenerateSuccess(t *testing.T) {
	var gotAuth, gotAppID string
	var gotPayload requestPayload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAppID = r.Header.Get("appid")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"result":"回答内容"}`))
	}))
	defer ts.Close()

	c := NewClient(newTestClient(ts.URL), zap.NewNop())
	answer := c.Generate(context.Background(), "prompt text")

	assert.Equal(t, "回答内容", answer)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "app-test", gotAppID)
	assert.Equal(t, "ernie-3.5-8k", gotPayload.Model)
	require.Len(t, gotPayload.Messages, 1)
	assert.Equal(t, "user", gotPayload.Messages[0].Role)
	assert.Equal(t, "prompt text", gotPayload.Messages[0].Content)
	assert.False(t, gotPayload.WebSearch.Enable)
}

func TestGenerateServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(newTestClient(ts.URL), zap.NewNop())
	answer := c.Generate(context.Background(), "prompt")
	assert.Contains(t, answer, "生成回答时出错")
	assert.Contains(t, answer, "502")
}

func TestGenerateNetworkError(t *testing.T) {
	ts := httptest.NewServer(nil)
	ts.Close()

	c := NewClient(newTestClient(ts.URL), zap.NewNop())
	answer := c.Generate(context.Background(), "prompt")
	assert.Contains(t, answer, "生成回答时出错")
}

func TestGenerateUnparseableBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something_else":true}`))
	}))
	defer ts.Close()

	c := NewClient(newTestClient(ts.URL), zap.NewNop())
	assert.Equal(t, UnparseableAnswer, c.Generate(context.Background(), "prompt"))
}
