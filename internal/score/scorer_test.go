// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"context"
	"errors"
	"testing"

	"github.com/pdiddy/litscout/pkg/types"
)

type stubBackend struct {
	reply string
	err   error
}

func (s *stubBackend) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func testPaper() types.Paper {
	return types.Paper{PMID: "1", Title: "T", Abstract: "A"}
}

func TestScorePaperParsesJSON(t *testing.T) {
	b := &stubBackend{reply: `{"score": 8, "summary": "one\ntwo\nthree"}`}

	score, summary := ScorePaper(context.Background(), b, "disc", testPaper())
	if score != 8 {
		t.Errorf("score = %d, want 8", score)
	}
	if summary != "one\ntwo\nthree" {
		t.Errorf("summary = %q", summary)
	}
}

func TestScorePaperStripsCodeFences(t *testing.T) {
	b := &stubBackend{reply: "```json\n{\"score\": 3, \"summary\": \"s\"}\n```"}

	score, summary := ScorePaper(context.Background(), b, "disc", testPaper())
	if score != 3 || summary != "s" {
		t.Errorf("got (%d, %q)", score, summary)
	}
}

func TestScorePaperClampsRange(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"too high", `{"score": 42, "summary": "s"}`, 10},
		{"negative", `{"score": -3, "summary": "s"}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &stubBackend{reply: tt.reply}
			score, _ := ScorePaper(context.Background(), b, "disc", testPaper())
			if score != tt.want {
				t.Errorf("score = %d, want %d", score, tt.want)
			}
		})
	}
}

func TestScorePaperFallsBackOnError(t *testing.T) {
	b := &stubBackend{err: errors.New("api unreachable")}

	score, summary := ScorePaper(context.Background(), b, "disc", testPaper())
	if score != types.FallbackScore {
		t.Errorf("score = %d, want %d", score, types.FallbackScore)
	}
	if summary != types.FallbackSummary {
		t.Errorf("summary = %q, want fallback", summary)
	}
}

func TestScorePaperFallsBackOnMissingScore(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no score field", `{"summary": "looks relevant"}`},
		{"zero score", `{"score": 0, "summary": "s"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &stubBackend{reply: tt.reply}
			score, summary := ScorePaper(context.Background(), b, "disc", testPaper())
			if score != types.FallbackScore || summary != types.FallbackSummary {
				t.Errorf("got (%d, %q), want fallback pair", score, summary)
			}
		})
	}
}

func TestScorePaperFallsBackOnGarbage(t *testing.T) {
	b := &stubBackend{reply: "I think this paper is quite relevant!"}

	score, summary := ScorePaper(context.Background(), b, "disc", testPaper())
	if score != types.FallbackScore || summary != types.FallbackSummary {
		t.Errorf("got (%d, %q), want fallback pair", score, summary)
	}
}

func TestScoreAllScoresEveryPaper(t *testing.T) {
	b := &stubBackend{reply: `{"score": 7, "summary": "s"}`}
	papers := []types.Paper{
		{PMID: "1", Title: "A"},
		{PMID: "2", Title: "B"},
		{PMID: "3", Title: "C"},
		{PMID: "4", Title: "D"},
	}

	ScoreAll(context.Background(), b, "disc", papers, 2, 0, nil)

	for i, p := range papers {
		if p.RelevanceScore != 7 {
			t.Errorf("papers[%d].RelevanceScore = %d, want 7", i, p.RelevanceScore)
		}
		if p.Summary != "s" {
			t.Errorf("papers[%d].Summary = %q", i, p.Summary)
		}
	}
}

func TestScoreAllCompletesWhenBackendDown(t *testing.T) {
	b := &stubBackend{err: errors.New("unreachable")}
	papers := []types.Paper{{PMID: "1"}, {PMID: "2"}, {PMID: "3"}}

	ScoreAll(context.Background(), b, "disc", papers, 10, 0, nil)

	for i, p := range papers {
		if p.RelevanceScore != types.FallbackScore || p.Summary != types.FallbackSummary {
			t.Errorf("papers[%d] = (%d, %q), want fallback pair", i, p.RelevanceScore, p.Summary)
		}
	}
}
