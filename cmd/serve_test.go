package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/internal/pipeline"
)

type fakeRunner struct {
	fn func(ctx context.Context, seed model.Seed, n pipeline.Notifier) (*pipeline.Result, error)
}

func (f *fakeRunner) Run(ctx context.Context, seed model.Seed, n pipeline.Notifier) (*pipeline.Result, error) {
	return f.fn(ctx, seed, n)
}

func postAnalyze(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) analyzeResponse {
	t.Helper()
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	h := newRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAnalyzeEndpoint_Success(t *testing.T) {
	h := newRouter(&fakeRunner{fn: func(_ context.Context, seed model.Seed, n pipeline.Notifier) (*pipeline.Result, error) {
		assert.Equal(t, "https://acme.com", seed.URL)
		assert.Equal(t, "analytics", seed.Description)
		n.Info("Searching for competitors...")
		n.Success("done")
		return &pipeline.Result{RunID: "r1", State: pipeline.StateDone}, nil
	}})

	rr := postAnalyze(t, h, `{"url":"https://acme.com","description":"analytics"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decodeResponse(t, rr)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "r1", resp.Result.RunID)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, pipeline.LevelSuccess, resp.Messages[1].Level)
	assert.Empty(t, resp.Error)
}

func TestAnalyzeEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "invalid body", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "empty seed", body: `{}`, err: &model.InputError{}, wantStatus: http.StatusBadRequest},
		{name: "config", body: `{"url":"x"}`, err: &model.ConfigError{Missing: []string{"firecrawl.key"}}, wantStatus: http.StatusServiceUnavailable},
		{name: "canceled", body: `{"url":"x"}`, err: context.Canceled, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newRouter(&fakeRunner{fn: func(context.Context, model.Seed, pipeline.Notifier) (*pipeline.Result, error) {
				return nil, tt.err
			}})

			rr := postAnalyze(t, h, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, decodeResponse(t, rr).Error)
		})
	}
}

func TestAnalyzeEndpoint_SerializesRuns(t *testing.T) {
	var active, peak int32
	h := newRouter(&fakeRunner{fn: func(context.Context, model.Seed, pipeline.Notifier) (*pipeline.Result, error) {
		cur := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return &pipeline.Result{State: pipeline.StateDone}, nil
	}})

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			postAnalyze(t, h, `{"url":"https://acme.com"}`)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestCORSPreflight(t *testing.T) {
	h := newRouter(&fakeRunner{})

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
