package model

// TokenUsage tracks model token consumption for one analysis call.
type TokenUsage struct {
	Model        string `json:"model,omitempty"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

// RunUsage aggregates the billable provider calls made by one run.
type RunUsage struct {
	SearchProvider string     `json:"search_provider"`
	SearchQueries  int        `json:"search_queries"`
	Extractions    int        `json:"extractions"`
	Analysis       TokenUsage `json:"analysis"`
}
