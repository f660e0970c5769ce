package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLlamaParseConvert(t *testing.T) {
	var statusPolls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer lp-key", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			_, header, err := r.FormFile("file")
			require.NoError(t, err)
			assert.Equal(t, "contrato.pdf", header.Filename)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "PENDING"})

		case r.Method == http.MethodGet && r.URL.Path == "/job/job-1":
			status := "PENDING"
			if statusPolls.Add(1) >= 2 {
				status = "SUCCESS"
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": status})

		case r.Method == http.MethodGet && r.URL.Path == "/job/job-1/result/markdown":
			_ = json.NewEncoder(w).Encode(map[string]string{"markdown": "# Contrato de Locação"})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "contrato.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	conv, err := NewLlamaParseConverter("lp-key",
		WithLlamaParseBaseURL(server.URL),
		WithPollInterval(time.Millisecond))
	require.NoError(t, err)

	text, err := conv.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "# Contrato de Locação", text)
	assert.GreaterOrEqual(t, statusPolls.Load(), int32(2))
}

func TestLlamaParseJobError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-2", "status": "PENDING"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-2", "status": "ERROR"})
		}
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "contrato.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	conv, err := NewLlamaParseConverter("lp-key",
		WithLlamaParseBaseURL(server.URL),
		WithPollInterval(time.Millisecond))
	require.NoError(t, err)

	_, err = conv.Convert(context.Background(), path)
	assert.Error(t, err)
}

func TestLlamaParseRequiresKey(t *testing.T) {
	_, err := NewLlamaParseConverter("")
	assert.Error(t, err)
}
