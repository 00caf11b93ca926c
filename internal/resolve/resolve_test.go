// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"errors"
	"testing"
)

func TestExtractPMID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"colon space", "see PMID: 12345678 for details", "12345678"},
		{"colon no space", "pmid:987654", "987654"},
		{"bare space", "PMID 33445566 reported this", "33445566"},
		{"lowercase", "the paper (pmid: 111) shows", "111"},
		{"absent", "no identifier mentioned here", ""},
		{"too long", "PMID: 123456789012", ""},
		{"first of several", "PMID: 11 and PMID: 22", "11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPMID(tt.text); got != tt.want {
				t.Errorf("ExtractPMID(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

type stubBackend struct {
	reply string
	err   error
}

func (s *stubBackend) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name    string
		backend *stubBackend
		want    string
	}{
		{"clean pmid", &stubBackend{reply: "12345678"}, "12345678"},
		{"padded pmid", &stubBackend{reply: "  12345678\n"}, "12345678"},
		{"sentinel", &stubBackend{reply: "NOT_FOUND"}, ""},
		{"chatty reply", &stubBackend{reply: "The PMID is 12345678."}, ""},
		{"backend error", &stubBackend{err: errors.New("down")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(context.Background(), tt.backend, "abstract text"); got != tt.want {
				t.Errorf("Infer() = %q, want %q", got, tt.want)
			}
		})
	}
}
