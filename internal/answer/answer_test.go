package answer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAnswerServer mimics the /ask endpoint: it echoes a canned answer per question.
func newAnswerServer(t *testing.T, answers map[string]string) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Post("/ask", func(w http.ResponseWriter, req *http.Request) {
		if ct := req.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			http.Error(w, "unexpected content type "+ct, http.StatusUnsupportedMediaType)
			return
		}
		question := req.FormValue("question")
		answer, ok := answers[question]
		if !ok {
			answer = "Please ask a valid question."
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": answer})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestAsk(t *testing.T) {
	srv := newAnswerServer(t, map[string]string{
		"What is the capital of France?": "Paris is the capital",
		"a&b=c?":                         "encoded",
	})
	client := NewClientForURL(srv.URL + "/ask")

	tests := []struct {
		question string
		want     string
	}{
		{question: "What is the capital of France?", want: "Paris is the capital"},
		{question: "a&b=c?", want: "encoded"},
		{question: "unknown", want: "Please ask a valid question."},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got, err := client.Ask(context.Background(), tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAskFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
				assert.Contains(t, statusErr.Error(), "boom")
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>not json</html>"))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "error parsing response")
			},
		},
		{
			name: "missing answer",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"reply":"hi"}`))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingAnswer)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClientForURL(srv.URL).Ask(context.Background(), "q")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestAskEmptyAnswerIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":""}`))
	}))
	defer srv.Close()

	got, err := NewClientForURL(srv.URL).Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestAskConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/ask"
	srv.Close()

	_, err := NewClientForURL(endpoint).Ask(context.Background(), "q")
	assert.ErrorContains(t, err, "error sending request")
}

func TestAskTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClientForURL(srv.URL, WithTimeout(50*time.Millisecond)).Ask(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingAnswer))
}

type staticConfig string

func (s staticConfig) AskURL() (string, error) { return string(s), nil }

func TestNewClient(t *testing.T) {
	client, err := NewClient(staticConfig("http://localhost:5000/ask"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/ask", client.Endpoint())
}
