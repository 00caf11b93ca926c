// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score rates papers against discussion content via the completion
// API and attaches a three-line summary to each.
// Implements: prd003-scoring (R1-R4);
//
//	docs/ARCHITECTURE § Relevance Scoring.
package score

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/litscout/internal/llm"
	"github.com/pdiddy/litscout/pkg/types"
)

// scorePromptTmpl asks for a strict JSON object so the reply can be parsed
// without heuristics.
var scorePromptTmpl = template.Must(template.New("score").Parse(`You are rating how relevant a biomedical paper is to a discussion.

Discussion:
{{.Discussion}}

Paper title: {{.Title}}
Paper abstract: {{.Abstract}}

Rate the paper's relevance to the discussion on an integer scale of 1 (unrelated) to 10 (directly on topic), and explain the rating in exactly three lines.

Respond with a JSON object and nothing else:
{"score": <integer 1-10>, "summary": "<line one>\n<line two>\n<line three>"}
`))

// reply is the expected JSON shape of the model's answer.
type reply struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

// ScorePaper rates one paper against the discussion. It never returns an
// error: any request or parse failure degrades to the fixed fallback score
// and summary so one bad paper cannot abort a batch.
func ScorePaper(ctx context.Context, backend llm.Backend, discussion string, paper types.Paper) (int, string) {
	prompt, err := renderPrompt(discussion, paper)
	if err != nil {
		return types.FallbackScore, types.FallbackSummary
	}

	text, err := backend.Complete(ctx, prompt)
	if err != nil {
		return types.FallbackScore, types.FallbackSummary
	}

	var r reply
	if err := json.Unmarshal([]byte(stripFences(text)), &r); err != nil {
		return types.FallbackScore, types.FallbackSummary
	}
	// A decoded zero means the reply carried no usable "score" field.
	if r.Score == 0 {
		return types.FallbackScore, types.FallbackSummary
	}
	if r.Summary == "" {
		r.Summary = types.FallbackSummary
	}
	return types.ClampScore(r.Score), r.Summary
}

// ScoreAll rates papers in place. Papers within one batch are scored
// concurrently and awaited together; batches run sequentially with a fixed
// delay between them to respect upstream rate limits.
func ScoreAll(ctx context.Context, backend llm.Backend, discussion string, papers []types.Paper, batchSize int, batchDelay time.Duration, log *zap.Logger) {
	if batchSize <= 0 {
		batchSize = 5
	}
	if log == nil {
		log = zap.NewNop()
	}

	for start := 0; start < len(papers); start += batchSize {
		end := start + batchSize
		if end > len(papers) {
			end = len(papers)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				papers[i].RelevanceScore, papers[i].Summary = ScorePaper(ctx, backend, discussion, papers[i])
			}(i)
		}
		wg.Wait()

		log.Debug("scored batch",
			zap.Int("from", start),
			zap.Int("to", end),
		)

		if end < len(papers) && batchDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(batchDelay):
			}
		}
	}
}

// stripFences removes a surrounding markdown code fence, which some models
// wrap around JSON despite instructions.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// renderPrompt executes the scoring prompt template.
func renderPrompt(discussion string, paper types.Paper) (string, error) {
	var buf bytes.Buffer
	err := scorePromptTmpl.Execute(&buf, struct {
		Discussion string
		Title      string
		Abstract   string
	}{Discussion: discussion, Title: paper.Title, Abstract: paper.Abstract})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
