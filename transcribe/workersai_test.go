package transcribe

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEngine(srv *httptest.Server) *WorkersAI {
	engine := NewWorkersAI("acct", "token", "")
	engine.baseURL = srv.URL
	engine.httpClient = srv.Client()
	return engine
}

func TestWorkersAI_Transcribe(t *testing.T) {
	audio := []byte{0x00, 0x01, 0x02}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/acct/ai/run/"+DefaultModel, r.URL.Path)
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var req workersAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, base64.StdEncoding.EncodeToString(audio), req.Audio)
		require.Equal(t, "transcribe", req.Task)

		_, _ = w.Write([]byte(`{
			"result": {
				"text": "hello world",
				"words": [
					{"word": "hello", "start": 0, "end": 0.4},
					{"word": "world", "start": 0.4, "end": 0.9}
				]
			},
			"success": true,
			"errors": []
		}`))
	}))
	defer srv.Close()

	result, err := newTestEngine(srv).Transcribe(context.Background(), audio)
	require.NoError(t, err)
	require.Equal(t, "hello world", result.Text)
	require.Len(t, result.Words, 2)
	require.Equal(t, Word{Word: "world", Start: 0.4, End: 0.9}, result.Words[1])
	require.Empty(t, result.VTT)
}

func TestWorkersAI_InferenceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"result": null, "success": false, "errors": [{"message": "audio too long"}]}`))
	}))
	defer srv.Close()

	_, err := newTestEngine(srv).Transcribe(context.Background(), []byte("a"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "audio too long")
}
