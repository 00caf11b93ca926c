// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terms turns free-text discussion content into PubMed search terms
// via the completion API.
// Implements: prd002-terms (R1-R3);
//
//	docs/ARCHITECTURE § Term Generation.
package terms

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/pdiddy/litscout/internal/llm"
)

// maxTerms bounds the number of terms returned per discussion.
const maxTerms = 12

// termPromptTmpl instructs the model to emit newline-delimited PubMed query
// strings and nothing else.
var termPromptTmpl = template.Must(template.New("terms").Parse(`You are a biomedical literature search assistant. Read the discussion below and produce PubMed search queries that would find papers relevant to it.

Rules:
- Output between 1 and {{.Max}} queries, one per line.
- Each query is 2-6 keywords suitable for PubMed (no boolean operators, no field tags).
- Cover distinct facets of the discussion rather than rephrasing one idea.
- Output only the queries. No numbering, no bullets, no commentary.

Discussion:
{{.Discussion}}
`))

// Generate returns 1-12 search terms for the discussion text. It never
// fails: on any backend or parse problem the raw discussion text becomes
// the single search term, so the pipeline always has something to query.
func Generate(ctx context.Context, backend llm.Backend, discussion string) []string {
	fallback := []string{strings.TrimSpace(discussion)}

	prompt, err := renderPrompt(discussion)
	if err != nil {
		return fallback
	}

	reply, err := backend.Complete(ctx, prompt)
	if err != nil {
		return fallback
	}

	parsed := parseTerms(reply)
	if len(parsed) == 0 {
		return fallback
	}
	return parsed
}

// parseTerms splits a model reply into clean term strings: one per line,
// stripped of list markers and quotes, empty lines discarded.
func parseTerms(reply string) []string {
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		term := cleanTerm(line)
		if term == "" {
			continue
		}
		out = append(out, term)
		if len(out) == maxTerms {
			break
		}
	}
	return out
}

// cleanTerm strips leading list markers ("1.", "-", "*") and surrounding
// quotes from one line.
func cleanTerm(line string) string {
	term := strings.TrimSpace(line)
	term = strings.TrimLeft(term, "-*• \t")

	// Numbered lists: "3. term" or "3) term".
	if i := strings.IndexAny(term, ".)"); i > 0 && i <= 2 {
		if _, isNum := atoiPrefix(term[:i]); isNum {
			term = strings.TrimSpace(term[i+1:])
		}
	}

	term = strings.Trim(term, `"'`)
	return strings.TrimSpace(term)
}

// atoiPrefix reports whether s is all digits.
func atoiPrefix(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, s != ""
}

// renderPrompt executes the term prompt template.
func renderPrompt(discussion string) (string, error) {
	var buf bytes.Buffer
	err := termPromptTmpl.Execute(&buf, struct {
		Discussion string
		Max        int
	}{Discussion: discussion, Max: maxTerms})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
