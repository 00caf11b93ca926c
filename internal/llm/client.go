// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the completion API behind a small interface so the term
// generator, relevance scorer, and identifier resolver can share one client
// and tests can supply mocks.
// Implements: prd002-terms R3.1, prd003-scoring R3.1;
//
//	docs/ARCHITECTURE § Completion API.
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pdiddy/litscout/pkg/types"
)

// Backend sends one free-text prompt to the completion API and returns the
// model's text reply. Implementations must be safe for concurrent use.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIBackend is the production Backend over an OpenAI-compatible API.
type OpenAIBackend struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *zap.Logger
}

// NewOpenAIBackend builds a Backend from AIConfig. A nil logger disables
// request logging.
func NewOpenAIBackend(cfg types.AIConfig, log *zap.Logger) *OpenAIBackend {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
		log:     log,
	}
}

// Complete sends prompt as a single user message and returns the first
// choice's text.
func (b *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("completion API request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	b.log.Debug("completion finished",
		zap.String("model", b.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}
