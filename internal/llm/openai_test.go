package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ideas\":[]}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test", srv.URL, "gpt-test", 5*time.Second)
	content, err := c.Complete(context.Background(), Request{System: "s", User: "u", Temperature: 0.8, MaxTokens: 2000})
	require.NoError(t, err)

	assert.Equal(t, `{"ideas":[]}`, content)
	assert.Equal(t, "gpt-test", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Equal(t, 2000, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "u", got.Messages[1].Content)
}

func TestOpenAIClientClassifiesStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow"}`, ErrRateLimited},
		{"server error", http.StatusBadGateway, `oops`, ErrTransient},
		{"empty choices", http.StatusOK, `{"choices":[]}`, ErrMalformedOutput},
		{"bad envelope", http.StatusOK, `<html>`, ErrMalformedOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOpenAIClient("k", srv.URL, "", time.Second).Complete(context.Background(), Request{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
