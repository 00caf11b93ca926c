// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litscout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the literature-database client.
// Per prd001-metadata R4.1-R4.4.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is sent as the E-utilities email parameter (polite usage).
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Tool is the E-utilities tool parameter (default "litscout").
	Tool string `json:"tool,omitempty" yaml:"tool,omitempty"`

	// RequestDelay is the fixed pause between consecutive E-utilities
	// requests (default 350ms, under the 3 req/s unauthenticated limit).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// RetryDelay is the pause before the single retry of a failed request
	// (default 2s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// BatchSize is the number of PMIDs per EFetch request (default 5,
	// capped at 10).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// AIConfig holds shared settings for stages that call the completion API.
type AIConfig struct {
	// Model is the completion model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout is the per-request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PipelineConfig holds the aggregation pipeline settings.
// The share and floor values are tuned constants from operating experience,
// kept configurable rather than hard-coded. Per prd004-aggregation R2, R5.
type PipelineConfig struct {
	// MaxResults is the maximum total papers to return (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// ExpandReferences controls whether the subject paper's references are
	// expanded into full records (default true).
	ExpandReferences bool `json:"expand_references" yaml:"expand_references"`

	// ExpandCitations controls whether citing papers are fetched on lazy
	// expansion (default true).
	ExpandCitations bool `json:"expand_citations" yaml:"expand_citations"`

	// ReferenceShare is the fraction of MaxResults available to reference
	// expansion (default 0.8).
	ReferenceShare float64 `json:"reference_share" yaml:"reference_share"`

	// KeywordShare is the fraction of MaxResults available to keyword-search
	// additions (default 0.2).
	KeywordShare float64 `json:"keyword_share" yaml:"keyword_share"`

	// MinKeywordAdditions is the floor on keyword additions regardless of
	// KeywordShare (default 2).
	MinKeywordAdditions int `json:"min_keyword_additions" yaml:"min_keyword_additions"`

	// TopTerms is how many generated search terms are queried (default 5).
	TopTerms int `json:"top_terms" yaml:"top_terms"`

	// ScoreBatchSize is the number of papers scored concurrently per batch
	// (default 5).
	ScoreBatchSize int `json:"score_batch_size" yaml:"score_batch_size"`

	// ScoreBatchDelay is the pause between scoring batches (default 1s).
	ScoreBatchDelay time.Duration `json:"score_batch_delay" yaml:"score_batch_delay"`

	// FetchDelay is the pause between one-at-a-time reference fetches
	// (default 300ms).
	FetchDelay time.Duration `json:"fetch_delay" yaml:"fetch_delay"`
}

// DefaultPipelineConfig returns the tuned defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MaxResults:          20,
		ExpandReferences:    true,
		ExpandCitations:     true,
		ReferenceShare:      0.8,
		KeywordShare:        0.2,
		MinKeywordAdditions: 2,
		TopTerms:            5,
		ScoreBatchSize:      5,
		ScoreBatchDelay:     time.Second,
		FetchDelay:          300 * time.Millisecond,
	}
}

// ReferenceBudget returns the maximum number of references to expand.
func (c PipelineConfig) ReferenceBudget() int {
	return int(float64(c.MaxResults) * c.ReferenceShare)
}

// KeywordBudget returns the maximum number of keyword-search additions.
func (c PipelineConfig) KeywordBudget() int {
	budget := int(float64(c.MaxResults) * c.KeywordShare)
	if budget < c.MinKeywordAdditions {
		return c.MinKeywordAdditions
	}
	return budget
}
