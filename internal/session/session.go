// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds the state of one search-and-browse session as an
// explicit object: the ranked result list, the selected paper, user notes,
// and the filter text. Nothing here outlives the session; the YAML file is
// only a hand-off between CLI invocations working on the same session.
// Implements: prd005-session (R1-R4);
//
//	docs/ARCHITECTURE § Session State.
package session

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litscout/pkg/types"
)

// Session is the in-memory state of one discussion's search results.
type Session struct {
	// Discussion is the text the papers were ranked against.
	Discussion string `yaml:"discussion"`

	// Papers is the ranked, deduplicated result list.
	Papers []types.Paper `yaml:"papers"`

	// Selected is the PMID of the currently selected paper, or "".
	Selected string `yaml:"selected,omitempty"`

	// Notes maps PMID to free-text user notes.
	Notes map[string]string `yaml:"notes,omitempty"`

	// Filter is the current display filter text.
	Filter string `yaml:"filter,omitempty"`

	// ExpandCitations records whether citation expansion was enabled when
	// the session was produced.
	ExpandCitations bool `yaml:"expand_citations"`

	// Created is when the session was produced.
	Created time.Time `yaml:"created"`
}

// New builds a session around a pipeline result.
func New(discussion string, papers []types.Paper) *Session {
	return &Session{
		Discussion:      discussion,
		Papers:          papers,
		Notes:           make(map[string]string),
		ExpandCitations: true,
		Created:         time.Now(),
	}
}

// Find returns the paper with the given PMID, or nil.
func (s *Session) Find(pmid string) *types.Paper {
	for i := range s.Papers {
		if s.Papers[i].PMID == pmid {
			return &s.Papers[i]
		}
	}
	return nil
}

// Select marks a paper as selected. Unknown PMIDs are rejected.
func (s *Session) Select(pmid string) error {
	if s.Find(pmid) == nil {
		return fmt.Errorf("no paper with PMID %s in session", pmid)
	}
	s.Selected = pmid
	return nil
}

// SetNote attaches a note to a paper.
func (s *Session) SetNote(pmid, note string) error {
	if s.Find(pmid) == nil {
		return fmt.Errorf("no paper with PMID %s in session", pmid)
	}
	if s.Notes == nil {
		s.Notes = make(map[string]string)
	}
	s.Notes[pmid] = note
	return nil
}

// Merge appends papers whose PMIDs are not already present and returns how
// many were added. Existing entries win: a merged duplicate never replaces
// the paper already in the session.
func (s *Session) Merge(papers []types.Paper) int {
	seen := make(map[string]bool, len(s.Papers))
	for _, p := range s.Papers {
		seen[p.PMID] = true
	}

	added := 0
	for _, p := range papers {
		if p.PMID == "" || seen[p.PMID] {
			continue
		}
		seen[p.PMID] = true
		s.Papers = append(s.Papers, p)
		added++
	}
	return added
}

// Filtered returns the papers matching the session filter text. The match is
// case-insensitive over title, abstract, and journal; an empty filter
// returns everything. The session itself is not modified.
func (s *Session) Filtered() []types.Paper {
	needle := strings.ToLower(strings.TrimSpace(s.Filter))
	if needle == "" {
		return s.Papers
	}

	var out []types.Paper
	for _, p := range s.Papers {
		haystack := strings.ToLower(p.Title + " " + p.Abstract + " " + p.Journal)
		if strings.Contains(haystack, needle) {
			out = append(out, p)
		}
	}
	return out
}

// Save writes the session to a YAML file.
func (s *Session) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a session file written by Save.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}
	if s.Notes == nil {
		s.Notes = make(map[string]string)
	}
	return &s, nil
}
