// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline produces one ranked, deduplicated paper list from
// discussion content: subject-paper lookup, reference expansion, keyword
// search over generated terms, and a priority-weighted merge.
// Implements: prd004-aggregation (R1-R6);
//
//	docs/ARCHITECTURE § Aggregation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/litscout/internal/llm"
	"github.com/pdiddy/litscout/internal/resolve"
	"github.com/pdiddy/litscout/internal/score"
	"github.com/pdiddy/litscout/internal/terms"
	"github.com/pdiddy/litscout/pkg/types"
)

// subjectSummary is attached to the directly identified paper.
const subjectSummary = "Subject paper identified from the discussion.\nAll other results are ranked against it and the discussion text.\nReferences and citations can be expanded from here."

// MetadataClient is the slice of the literature-database client the
// pipeline needs. *pubmed.Client implements it; tests supply mocks.
type MetadataClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]string, error)
	FetchArticles(ctx context.Context, pmids []string) ([]types.Paper, error)
	Citations(ctx context.Context, pmid string) ([]string, error)
	References(ctx context.Context, pmid string) ([]string, error)
}

// Pipeline wires the metadata client and completion backend together under
// one configuration.
type Pipeline struct {
	Meta MetadataClient
	LLM  llm.Backend
	Cfg  types.PipelineConfig
	Log  *zap.Logger
}

// New builds a Pipeline. A nil logger disables logging.
func New(meta MetadataClient, backend llm.Backend, cfg types.PipelineConfig, log *zap.Logger) *Pipeline {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}
	if cfg.TopTerms <= 0 {
		cfg.TopTerms = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Meta: meta, LLM: backend, Cfg: cfg, Log: log}
}

// Run executes the full aggregation for one discussion text. Progress is
// written to w. Per-paper failures degrade or skip; only a total upstream
// outage yields an empty list, never a panic or partial duplicate set.
func (p *Pipeline) Run(ctx context.Context, discussion string, w io.Writer) ([]types.Paper, error) {
	// Stage 1: subject identification, literal pattern first.
	pmid := resolve.ExtractPMID(discussion)
	if pmid == "" {
		pmid = resolve.Infer(ctx, p.LLM, discussion)
	}

	// Stage 2: direct fetch plus reference expansion.
	var direct []types.Paper
	if pmid != "" {
		fmt.Fprintf(w, "subject paper: PMID %s\n", pmid)
		direct = p.fetchSubjectSet(ctx, pmid, w)
	} else {
		fmt.Fprintln(w, "no subject paper identified, using keyword search only")
	}

	// Stage 3: keyword search over generated terms, always.
	keyword := p.keywordSearch(ctx, discussion, len(direct), pmidSet(direct), w)

	// Stage 4: priority-weighted merge.
	results := p.merge(direct, keyword)

	// Stage 5: final ordering. Subject first, then by score.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].IsSubject != results[j].IsSubject {
			return results[i].IsSubject
		}
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	p.Log.Info("aggregation finished",
		zap.String("subject_pmid", pmid),
		zap.Int("direct", len(direct)),
		zap.Int("keyword", len(keyword)),
		zap.Int("total", len(results)),
	)
	return results, nil
}

// fetchSubjectSet retrieves the subject paper and expands its references up
// to the reference budget, one at a time with a fixed delay. A failed
// subject fetch degrades to keyword-only search; a failed reference fetch
// is skipped.
func (p *Pipeline) fetchSubjectSet(ctx context.Context, pmid string, w io.Writer) []types.Paper {
	papers, err := p.Meta.FetchArticles(ctx, []string{pmid})
	if err != nil || len(papers) == 0 {
		fmt.Fprintf(w, "warning: subject fetch failed: %v\n", err)
		p.Log.Warn("subject fetch failed", zap.String("pmid", pmid), zap.Error(err))
		return nil
	}

	subject := papers[0]
	subject.IsSubject = true
	subject.RelevanceScore = types.SubjectScore
	subject.Summary = subjectSummary
	out := []types.Paper{subject}

	if !p.Cfg.ExpandReferences {
		return out
	}

	refs := subject.References
	if len(refs) == 0 {
		if refs, err = p.Meta.References(ctx, pmid); err != nil {
			fmt.Fprintf(w, "warning: reference lookup failed: %v\n", err)
			return out
		}
	}

	budget := p.Cfg.ReferenceBudget()
	if len(refs) > budget {
		refs = refs[:budget]
	}

	fmt.Fprintf(w, "expanding %d references\n", len(refs))
	for i, ref := range refs {
		if i > 0 && p.Cfg.FetchDelay > 0 {
			select {
			case <-ctx.Done():
				return out
			case <-time.After(p.Cfg.FetchDelay):
			}
		}

		fetched, err := p.Meta.FetchArticles(ctx, []string{ref})
		if err != nil || len(fetched) == 0 {
			p.Log.Warn("reference fetch skipped", zap.String("pmid", ref), zap.Error(err))
			continue
		}

		r := fetched[0]
		r.RelevanceScore = types.DerivedScore
		r.Summary = types.DerivedSummary
		out = append(out, r)
	}
	return out
}

// keywordSearch generates terms, runs one search per term with an evenly
// divided result budget, fetches and scores the hits. Papers already in the
// direct set are not re-fetched.
func (p *Pipeline) keywordSearch(ctx context.Context, discussion string, directCount int, exclude map[string]bool, w io.Writer) []types.Paper {
	generated := terms.Generate(ctx, p.LLM, discussion)
	if len(generated) > p.Cfg.TopTerms {
		generated = generated[:p.Cfg.TopTerms]
	}
	fmt.Fprintf(w, "searching %d terms\n", len(generated))

	remaining := p.Cfg.MaxResults - directCount
	if remaining < 2 {
		remaining = 2
	}
	perTerm := (remaining + len(generated) - 1) / len(generated)
	if perTerm < 1 {
		perTerm = 1
	}

	seen := make(map[string]bool)
	var pmids []string
	for _, term := range generated {
		ids, err := p.Meta.Search(ctx, term, perTerm)
		if err != nil {
			fmt.Fprintf(w, "warning: search %q failed: %v\n", term, err)
			p.Log.Warn("term search failed", zap.String("term", term), zap.Error(err))
			continue
		}
		for _, id := range ids {
			if seen[id] || exclude[id] {
				continue
			}
			seen[id] = true
			pmids = append(pmids, id)
		}
	}

	if len(pmids) == 0 {
		return nil
	}

	papers, err := p.Meta.FetchArticles(ctx, pmids)
	if err != nil {
		fmt.Fprintf(w, "warning: keyword fetch failed: %v\n", err)
		p.Log.Warn("keyword fetch failed", zap.Error(err))
		return nil
	}

	score.ScoreAll(ctx, p.LLM, discussion, papers, p.Cfg.ScoreBatchSize, p.Cfg.ScoreBatchDelay, p.Log)
	return papers
}

// merge walks the keyword results best-first and admits papers not already
// present. With a direct set the additions are capped at the keyword budget;
// without one the result is purely keyword-driven up to MaxResults.
func (p *Pipeline) merge(direct, keyword []types.Paper) []types.Paper {
	sort.SliceStable(keyword, func(i, j int) bool {
		return keyword[i].RelevanceScore > keyword[j].RelevanceScore
	})

	limit := p.Cfg.KeywordBudget()
	if len(direct) == 0 {
		limit = p.Cfg.MaxResults
	}

	present := pmidSet(direct)
	out := append([]types.Paper{}, direct...)
	added := 0
	for _, k := range keyword {
		if added >= limit {
			break
		}
		if k.PMID == "" || present[k.PMID] {
			continue
		}
		present[k.PMID] = true
		out = append(out, k)
		added++
	}
	return out
}

// pmidSet indexes a paper list by PMID.
func pmidSet(papers []types.Paper) map[string]bool {
	set := make(map[string]bool, len(papers))
	for _, p := range papers {
		set[p.PMID] = true
	}
	return set
}
