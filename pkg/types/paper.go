// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litscout pipeline.
// Implements: prd001-metadata (Paper);
//
//	prd004-aggregation (result-set invariants);
//	prd005-session (Session file shapes).
//
// See docs/ARCHITECTURE § Data Structures.
package types

// Relevance score bounds and fixed fallbacks shared by the scorer and the
// aggregation pipeline.
const (
	MinRelevanceScore = 1
	MaxRelevanceScore = 10

	// SubjectScore is assigned to the paper the discussion is directly about.
	SubjectScore = MaxRelevanceScore

	// DerivedScore is assigned to papers reached through the citation or
	// reference graph rather than scored individually.
	DerivedScore = 6

	// FallbackScore is assigned when the completion API cannot produce a
	// usable score for a paper.
	FallbackScore = 5
)

// FallbackSummary is used when the completion API cannot produce a summary.
const FallbackSummary = "Relevance could not be assessed automatically. Review the abstract to judge pertinence to the discussion."

// DerivedSummary is used for papers pulled in through the citation or
// reference graph without individual scoring.
const DerivedSummary = "Linked to the subject paper through the citation graph. Not scored against the discussion."

// NoAbstract is the placeholder stored when PubMed has no abstract for a
// record. A Paper's Abstract is never empty.
const NoAbstract = "No abstract available."

// Paper is one retrieved literature record. PMID is the dedup key: a result
// set never contains two papers with the same PMID.
type Paper struct {
	// PMID is the PubMed identifier, unique within a result set.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title as returned by PubMed.
	Title string `json:"title" yaml:"title"`

	// Authors is the display string ("Smith J, Jones A, et al.").
	Authors string `json:"authors" yaml:"authors"`

	// Journal is the journal name.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Year is the publication year ("2023"); empty when unknown.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// PubDate is the full publication date string as given by PubMed.
	PubDate string `json:"pub_date,omitempty" yaml:"pub_date,omitempty"`

	// Abstract is the abstract text, or NoAbstract when PubMed has none.
	Abstract string `json:"abstract" yaml:"abstract"`

	// DOI is the Digital Object Identifier, when present.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is the canonical PubMed page for the article.
	URL string `json:"url" yaml:"url"`

	// RelevanceScore is a 1-10 rating against the discussion text.
	RelevanceScore int `json:"relevance_score" yaml:"relevance_score"`

	// Summary is a three-line explanation of the score.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// CitedBy lists PMIDs of citing papers. Populated lazily on expansion.
	CitedBy []string `json:"cited_by,omitempty" yaml:"cited_by,omitempty"`

	// References lists PMIDs the article cites. Populated at fetch time.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`

	// IsSubject marks the paper the discussion was directly about.
	IsSubject bool `json:"is_subject,omitempty" yaml:"is_subject,omitempty"`
}

// ClampScore forces a score into [MinRelevanceScore, MaxRelevanceScore].
func ClampScore(score int) int {
	if score < MinRelevanceScore {
		return MinRelevanceScore
	}
	if score > MaxRelevanceScore {
		return MaxRelevanceScore
	}
	return score
}
