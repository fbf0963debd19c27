package dashscope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func sseEvent(id int, data string) string {
	return fmt.Sprintf("id:%d\nevent:result\n:HTTP_STATUS/200\ndata:%s\n\n", id, data)
}

func TestStreamGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, generationPath, r.URL.Path)
		assert.Equal(t, "Bearer ds-key", r.Header.Get("Authorization"))
		assert.Equal(t, "enable", r.Header.Get("X-DashScope-SSE"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "qwen-max", body["model"])
		params := body["parameters"].(map[string]any)
		assert.Equal(t, "message", params["result_format"])
		assert.Equal(t, false, params["incremental_output"])
		assert.InDelta(t, 0.8, params["top_p"], 0.0001)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, sseEvent(1, `{"output":{"choices":[{"message":{"role":"assistant","content":"# Report"},"finish_reason":"null"}]}}`))
		_, _ = io.WriteString(w, sseEvent(2, `{"output":{"choices":[{"message":{"role":"assistant","content":"# Report\nBody"},"finish_reason":"stop"}]},"usage":{"input_tokens":30,"output_tokens":4}}`))
	}))
	defer srv.Close()

	topP := 0.8
	client := NewClient("ds-key", WithBaseURL(srv.URL))
	stream, err := client.StreamGeneration(context.Background(), GenerationRequest{
		Model:    "qwen-max",
		Messages: []Message{{Role: "user", Content: "analyze"}},
		TopP:     &topP,
	})
	require.NoError(t, err)
	defer stream.Close()

	var contents []string
	var last []byte
	for stream.Next() {
		last = stream.Chunk()
		contents = append(contents, gjson.GetBytes(last, "output.choices.0.message.content").String())
	}
	require.NoError(t, stream.Err())
	assert.Equal(t, []string{"# Report", "# Report\nBody"}, contents)
	assert.Equal(t, int64(4), gjson.GetBytes(last, "usage.output_tokens").Int())
}

func TestStreamGeneration_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"InvalidApiKey","message":"Invalid API-key provided."}`))
	}))
	defer srv.Close()

	client := NewClient("bad", WithBaseURL(srv.URL))
	stream, err := client.StreamGeneration(context.Background(), GenerationRequest{Model: "qwen-max"})
	require.Error(t, err)
	assert.Nil(t, stream)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus())
	assert.Contains(t, err.Error(), "InvalidApiKey")
}

func TestStreamGeneration_ErrorEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, sseEvent(1, `{"output":{"choices":[{"message":{"content":"partial"}}]}}`))
		_, _ = io.WriteString(w, "id:2\nevent:error\ndata:{\"code\":\"DataInspectionFailed\",\"message\":\"inappropriate content\",\"request_id\":\"r-9\"}\n\n")
	}))
	defer srv.Close()

	client := NewClient("ds-key", WithBaseURL(srv.URL))
	stream, err := client.StreamGeneration(context.Background(), GenerationRequest{Model: "qwen-max"})
	require.NoError(t, err)
	defer stream.Close()

	n := 0
	for stream.Next() {
		n++
	}
	assert.Equal(t, 1, n)

	var se *StreamError
	require.True(t, errors.As(stream.Err(), &se))
	assert.Equal(t, "DataInspectionFailed", se.Code)
	assert.Equal(t, "r-9", se.RequestID)
}

func TestSSEReader(t *testing.T) {
	input := strings.Join([]string{
		": keep-alive comment",
		"",
		"event:result",
		"data:{\"a\":1}",
		"",
		"data: {\"b\":",
		"data: 2}",
		"",
		"data:{\"tail\":true}",
	}, "\n")

	r := newSSEReader(strings.NewReader(input))

	event, data, err := r.readEvent()
	require.NoError(t, err)
	assert.Equal(t, "result", event)
	assert.Equal(t, `{"a":1}`, string(data))

	_, data, err = r.readEvent()
	require.NoError(t, err)
	assert.Equal(t, "{\"b\":\n2}", string(data))

	_, data, err = r.readEvent()
	require.NoError(t, err)
	assert.Equal(t, `{"tail":true}`, string(data))

	_, _, err = r.readEvent()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStream_SkipsInvalidPayloads(t *testing.T) {
	body := io.NopCloser(strings.NewReader("data:not-json\n\ndata:{\"output\":{\"text\":\"ok\"}}\n\n"))
	s := newStream(body)

	require.True(t, s.Next())
	assert.Equal(t, "ok", gjson.GetBytes(s.Chunk(), "output.text").String())
	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
	assert.NoError(t, s.Close())
}
