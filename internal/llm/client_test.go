package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Micos01/analise-locacao/internal/common"
)

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "mistral", APIKey: "k"})
	assert.Error(t, err)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	for _, provider := range []string{"gemini", "openrouter"} {
		_, err := NewClient(Config{Provider: provider})
		assert.Error(t, err, provider)
	}
}

func TestGeminiExtractFromImages(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]any{{"text": `{"status": "NÃO ASSINADO"}`}},
				}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "gemini", APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := client.ExtractFromImages(context.Background(), "contrato.pdf", [][]byte{{0xff, 0xd8}})
	require.NoError(t, err)
	assert.Equal(t, `{"status": "NÃO ASSINADO"}`, out)

	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)

	contents, ok := gotBody["contents"].([]any)
	require.True(t, ok)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2, "prompt part plus one image part")
}

func TestGeminiRateLimitIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "gemini", APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ExtractFromText(context.Background(), "contrato.pdf", "texto")
	require.Error(t, err)

	var retryable *common.RetryableError
	require.True(t, errors.As(err, &retryable))
	assert.True(t, retryable.Retryable)
	assert.True(t, errors.Is(err, common.ErrRateLimit))
}

func TestOpenRouterExtractFromText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer or-key", r.Header.Get("Authorization"))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"status": "FÍSICA (COM FIRMA)"}`}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "openrouter", APIKey: "or-key", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := client.ExtractFromText(context.Background(), "contrato.pdf", "texto do contrato")
	require.NoError(t, err)
	assert.Equal(t, `{"status": "FÍSICA (COM FIRMA)"}`, out)
}

func TestGeminiServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "gemini", APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.ExtractFromText(context.Background(), "contrato.pdf", "texto")
	require.Error(t, err)

	var retryable *common.RetryableError
	require.True(t, errors.As(err, &retryable))
	assert.True(t, retryable.Retryable)
}
