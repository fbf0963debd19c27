package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-api-key", WithBaseURL(srv.URL))
	return srv, c
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantID     string
		wantErr    bool
		wantAPIErr bool
		wantStatus int
	}{
		{
			name: "happy path",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/extract", r.URL.Path)
				assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var raw struct {
					URLs   []string       `json:"urls"`
					Prompt string         `json:"prompt"`
					Schema map[string]any `json:"schema"`
				}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
				assert.Equal(t, []string{"https://example.com/*"}, raw.URLs)
				assert.Equal(t, "pull pricing", raw.Prompt)
				assert.Equal(t, "object", raw.Schema["type"])

				json.NewEncoder(w).Encode(ExtractResponse{Success: true, ID: "ext-123"})
			},
			wantID: "ext-123",
		},
		{
			name: "auth error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
			},
			wantErr:    true,
			wantAPIErr: true,
			wantStatus: 401,
		},
		{
			name: "payment required",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusPaymentRequired)
				w.Write([]byte(`{"error":"insufficient credits"}`))
			},
			wantErr:    true,
			wantAPIErr: true,
			wantStatus: 402,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, tt.handler)
			resp, err := c.Extract(context.Background(), ExtractRequest{
				URLs:   []string{"https://example.com/*"},
				Prompt: "pull pricing",
				Schema: map[string]any{"type": "object"},
			})

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantAPIErr {
					var apiErr *APIError
					require.ErrorAs(t, err, &apiErr)
					assert.Equal(t, tt.wantStatus, apiErr.HTTPStatus())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, resp.ID)
			assert.True(t, resp.Success)
		})
	}
}

func TestGetExtractStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
		wantData   bool
	}{
		{
			name:       "completed",
			body:       `{"success":true,"status":"completed","data":{"company_name":"Acme","pricing":"$10/mo"}}`,
			wantStatus: StatusCompleted,
			wantData:   true,
		},
		{
			name:       "processing",
			body:       `{"success":true,"status":"processing"}`,
			wantStatus: StatusProcessing,
		},
		{
			name:       "completed with null data",
			body:       `{"success":true,"status":"completed","data":null}`,
			wantStatus: StatusCompleted,
		},
		{
			name:       "completed with empty object",
			body:       `{"success":true,"status":"completed","data":{}}`,
			wantStatus: StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/extract/ext-123", r.URL.Path)
				assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
				w.Write([]byte(tt.body))
			})

			resp, err := c.GetExtractStatus(context.Background(), "ext-123")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantData, resp.HasData())
		})
	}
}

func TestGetExtractStatus_NotFound(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"job not found"}`))
	})

	_, err := c.GetExtractStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get extract status missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestHasData_NilResponse(t *testing.T) {
	var resp *ExtractStatusResponse
	assert.False(t, resp.HasData())
}
