// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/litscout/internal/session"
	"github.com/pdiddy/litscout/pkg/types"
)

// ExpandCitations fetches papers citing the selected PMID and merges any new
// ones into the session. The citing-PMID list is cached on the paper so a
// second expansion does not hit the graph endpoint again. Returns the number
// of papers added.
func (p *Pipeline) ExpandCitations(ctx context.Context, sess *session.Session, pmid string) (int, error) {
	if !p.Cfg.ExpandCitations {
		return 0, nil
	}

	paper := sess.Find(pmid)
	if paper == nil {
		return 0, fmt.Errorf("no paper with PMID %s in session", pmid)
	}

	if len(paper.CitedBy) == 0 {
		ids, err := p.Meta.Citations(ctx, pmid)
		if err != nil {
			return 0, fmt.Errorf("citation lookup for %s: %w", pmid, err)
		}
		paper.CitedBy = ids
	}

	return p.mergeRelated(ctx, sess, paper.CitedBy)
}

// ExpandReferences expands the selected paper's known reference PMIDs into
// full records and merges any new ones into the session. Returns the number
// of papers added.
func (p *Pipeline) ExpandReferences(ctx context.Context, sess *session.Session, pmid string) (int, error) {
	paper := sess.Find(pmid)
	if paper == nil {
		return 0, fmt.Errorf("no paper with PMID %s in session", pmid)
	}

	if len(paper.References) == 0 {
		ids, err := p.Meta.References(ctx, pmid)
		if err != nil {
			return 0, fmt.Errorf("reference lookup for %s: %w", pmid, err)
		}
		paper.References = ids
	}

	return p.mergeRelated(ctx, sess, paper.References)
}

// mergeRelated fetches the PMIDs not yet in the session, marks them as
// graph-derived, and merges them without duplicating existing entries.
func (p *Pipeline) mergeRelated(ctx context.Context, sess *session.Session, ids []string) (int, error) {
	var missing []string
	for _, id := range ids {
		if sess.Find(id) == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	papers, err := p.Meta.FetchArticles(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("fetching related papers: %w", err)
	}

	for i := range papers {
		papers[i].RelevanceScore = types.DerivedScore
		papers[i].Summary = types.DerivedSummary
	}

	added := sess.Merge(papers)
	p.Log.Debug("expanded related papers",
		zap.Int("requested", len(missing)),
		zap.Int("added", added),
	)
	return added, nil
}
