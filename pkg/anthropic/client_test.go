package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKMessages_Roles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "q"},
		{Role: "assistant", Content: "a"},
		{Role: "system", Content: "unknown defaults to user"},
	})
	require.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}

func TestToSDKMessages_Empty(t *testing.T) {
	assert.Empty(t, toSDKMessages(nil))
}

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "one "},
		{Type: "tool_use"},
		{Type: "text", Text: "two"},
	}}
	assert.Equal(t, "one two", resp.Text())

	var nilResp *MessageResponse
	assert.Equal(t, "", nilResp.Text())
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name  string
		model string
		usage TokenUsage
		want  float64
	}{
		{name: "haiku", model: "claude-haiku-4-5-20251001", usage: TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, want: 4.80},
		{name: "sonnet", model: "claude-sonnet-4-5-20250929", usage: TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}, want: 18.00},
		{name: "opus", model: "claude-opus-4-6", usage: TokenUsage{InputTokens: 500_000, OutputTokens: 100_000}, want: 15.00},
		{name: "unknown model", model: "claude-x", usage: TokenUsage{InputTokens: 1000}, want: 0},
		{name: "zero tokens", model: "claude-sonnet-4-5-20250929", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.usage.EstimateCost(tt.model), 0.0001)
		})
	}
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	u := TokenUsage{InputTokens: 100, OutputTokens: 50}
	assert.NotPanics(t, func() {
		u.LogCost("claude-sonnet-4-5-20250929", "analysis")
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 529, Message: "overloaded"}
	assert.Equal(t, "anthropic: HTTP 529: overloaded", err.Error())
	assert.Equal(t, 529, err.HTTPStatus())
}
