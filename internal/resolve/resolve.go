// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve finds the subject paper's PMID in discussion content,
// first by literal pattern match and then by asking the completion API to
// infer it from the text.
// Implements: prd004-aggregation R1;
//
//	docs/ARCHITECTURE § Subject Resolution.
package resolve

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/litscout/internal/llm"
)

// NotFound is the sentinel the inference prompt demands when no identifier
// can be determined.
const NotFound = "NOT_FOUND"

// pmidPattern matches literal PMID mentions: "PMID: 12345678", "PMID 12345678",
// "pmid:12345678". PubMed identifiers are 1-8 digits.
var pmidPattern = regexp.MustCompile(`(?i)\bPMID[:\s]*(\d{1,8})\b`)

// ExtractPMID returns the first literal PMID mentioned in text, or "".
func ExtractPMID(text string) string {
	m := pmidPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// inferPromptTmpl asks the model to name the paper the discussion is about.
var inferPromptTmpl = template.Must(template.New("infer").Parse(`The text below discusses a specific published biomedical paper. Determine that paper's PubMed identifier (PMID).

Reply with the PMID digits only. If you cannot determine the PMID with confidence, reply with exactly {{.Sentinel}}.

Text:
{{.Text}}
`))

// digitsOnly matches a bare PMID reply.
var digitsOnly = regexp.MustCompile(`^\d{1,8}$`)

// Infer asks the completion API for the subject paper's PMID. It returns ""
// when the model answers with the not-found sentinel, replies out of format,
// or the request fails; inference is best-effort and never blocks the
// pipeline.
func Infer(ctx context.Context, backend llm.Backend, text string) string {
	var buf bytes.Buffer
	err := inferPromptTmpl.Execute(&buf, struct {
		Text     string
		Sentinel string
	}{Text: text, Sentinel: NotFound})
	if err != nil {
		return ""
	}

	reply, err := backend.Complete(ctx, buf.String())
	if err != nil {
		return ""
	}

	reply = strings.TrimSpace(reply)
	if reply == NotFound || !digitsOnly.MatchString(reply) {
		return ""
	}
	return reply
}
