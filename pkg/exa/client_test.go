package exa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSimilar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/findSimilar", r.URL.Path)
		assert.Equal(t, "exa-key", r.Header.Get("x-api-key"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "https://acme.com", raw["url"])
		assert.Equal(t, true, raw["excludeSourceDomain"])
		assert.Equal(t, "company", raw["category"])
		assert.InDelta(t, 10, raw["numResults"], 0.001)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"requestId":"r1","results":[{"id":"1","url":"https://a.com","title":"A"},{"id":"2","url":"https://b.com"}]}`))
	}))
	defer srv.Close()

	client := NewClient("exa-key", WithBaseURL(srv.URL))
	resp, err := client.FindSimilar(context.Background(), FindSimilarRequest{
		URL:                 "https://acme.com",
		NumResults:          10,
		ExcludeSourceDomain: true,
		Category:            CategoryCompany,
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", resp.RequestID)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, resp.URLs())
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "AI data analytics platform", req.Query)
		assert.Equal(t, SearchTypeNeural, req.Type)
		assert.True(t, req.UseAutoprompt)

		_, _ = w.Write([]byte(`{"results":[{"url":"https://c.com"}]}`))
	}))
	defer srv.Close()

	client := NewClient("exa-key", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), SearchRequest{
		Query:         "AI data analytics platform",
		Type:          SearchTypeNeural,
		Category:      CategoryCompany,
		UseAutoprompt: true,
		NumResults:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://c.com"}, resp.URLs())
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, wantErr: "HTTP 401"},
		{name: "malformed", status: http.StatusOK, body: `{`, wantErr: "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("exa-key", WithBaseURL(srv.URL))
			resp, err := client.Search(context.Background(), SearchRequest{Query: "x"})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchResponse_URLs_Nil(t *testing.T) {
	var resp *SearchResponse
	assert.Nil(t, resp.URLs())
}
