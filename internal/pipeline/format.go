// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litscout/pkg/types"
)

// FormatTable writes papers as a human-readable table to w.
func FormatTable(papers []types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-56s  %-24s  %-4s  %s\n",
		"Rank", "PMID", "Title", "Authors", "Year", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, p := range papers {
		marker := ""
		if p.IsSubject {
			marker = " *"
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-56s  %-24s  %-4s  %d%s\n",
			i+1, p.PMID, truncate(p.Title, 56), truncate(p.Authors, 24), p.Year, p.RelevanceScore, marker)
	}

	fmt.Fprintf(w, "\n%d papers (* = subject paper)\n", len(papers))
}

// FormatJSON writes papers as indented JSON to w.
func FormatJSON(papers []types.Paper, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

// FormatDetail writes one paper's full record to w.
func FormatDetail(p types.Paper, w io.Writer) {
	fmt.Fprintf(w, "PMID:     %s\n", p.PMID)
	fmt.Fprintf(w, "Title:    %s\n", p.Title)
	fmt.Fprintf(w, "Authors:  %s\n", p.Authors)
	fmt.Fprintf(w, "Journal:  %s (%s)\n", p.Journal, p.PubDate)
	if p.DOI != "" {
		fmt.Fprintf(w, "DOI:      %s\n", p.DOI)
	}
	fmt.Fprintf(w, "URL:      %s\n", p.URL)
	fmt.Fprintf(w, "Score:    %d\n", p.RelevanceScore)
	fmt.Fprintf(w, "Summary:\n  %s\n", strings.ReplaceAll(p.Summary, "\n", "\n  "))
	fmt.Fprintf(w, "Abstract:\n  %s\n", p.Abstract)
	if len(p.References) > 0 {
		fmt.Fprintf(w, "References: %s\n", strings.Join(p.References, ", "))
	}
	if len(p.CitedBy) > 0 {
		fmt.Fprintf(w, "Cited by:   %s\n", strings.Join(p.CitedBy, ", "))
	}
}

// truncate shortens s to max runes, never splitting a multi-byte character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
