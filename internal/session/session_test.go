// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/litscout/pkg/types"
)

func testSession() *Session {
	return New("some discussion", []types.Paper{
		{PMID: "1", Title: "Alpha study", Abstract: "about mice", Journal: "Nature", RelevanceScore: 9},
		{PMID: "2", Title: "Beta trial", Abstract: "about humans", Journal: "Lancet", RelevanceScore: 7},
	})
}

func TestMergeSkipsDuplicates(t *testing.T) {
	s := testSession()

	added := s.Merge([]types.Paper{
		{PMID: "2", Title: "Beta trial (dup)"},
		{PMID: "3", Title: "Gamma report"},
		{PMID: ""},
	})

	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	if len(s.Papers) != 3 {
		t.Fatalf("len = %d, want 3", len(s.Papers))
	}
	// The existing entry wins over the merged duplicate.
	if s.Papers[1].Title != "Beta trial" {
		t.Errorf("duplicate replaced existing paper: %q", s.Papers[1].Title)
	}
}

func TestFiltered(t *testing.T) {
	s := testSession()

	tests := []struct {
		name   string
		filter string
		want   int
	}{
		{"empty filter returns all", "", 2},
		{"title match", "alpha", 1},
		{"abstract match", "HUMANS", 1},
		{"journal match", "lancet", 1},
		{"no match", "zebrafish", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Filter = tt.filter
			if got := len(s.Filtered()); got != tt.want {
				t.Errorf("len(Filtered()) = %d, want %d", got, tt.want)
			}
		})
	}

	// Filtering never mutates the underlying list.
	if len(s.Papers) != 2 {
		t.Errorf("Papers shrank to %d", len(s.Papers))
	}
}

func TestSelectAndNotes(t *testing.T) {
	s := testSession()

	if err := s.Select("2"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if s.Selected != "2" {
		t.Errorf("Selected = %q", s.Selected)
	}
	if err := s.Select("99"); err == nil {
		t.Error("Select of unknown PMID should fail")
	}

	if err := s.SetNote("1", "read this again"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	if s.Notes["1"] != "read this again" {
		t.Errorf("Notes = %v", s.Notes)
	}
	if err := s.SetNote("99", "x"); err == nil {
		t.Error("SetNote on unknown PMID should fail")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testSession()
	s.Selected = "1"
	s.Notes["1"] = "key paper"
	s.Filter = "alpha"
	s.ExpandCitations = false

	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Discussion != s.Discussion {
		t.Errorf("Discussion = %q", loaded.Discussion)
	}
	if len(loaded.Papers) != 2 || loaded.Papers[0].PMID != "1" {
		t.Errorf("Papers = %+v", loaded.Papers)
	}
	if loaded.Selected != "1" || loaded.Notes["1"] != "key paper" {
		t.Errorf("state lost: selected=%q notes=%v", loaded.Selected, loaded.Notes)
	}
	if loaded.Filter != "alpha" {
		t.Errorf("Filter = %q, want %q", loaded.Filter, "alpha")
	}
	if loaded.ExpandCitations {
		t.Error("ExpandCitations = true, want the saved false")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
