// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litscout/internal/pipeline"
	"github.com/pdiddy/litscout/internal/session"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Browse a saved session",
	Long: `Show lists a saved session's papers, optionally narrowed by a filter over
title, abstract, and journal. With --pmid it prints one paper's full record,
marks it selected, and can attach a note.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("session", "", "session file written by recommend (required)")
	showCmd.Flags().String("pmid", "", "show one paper's full record")
	showCmd.Flags().String("filter", "", "filter papers by text match")
	showCmd.Flags().String("note", "", "attach a note to the paper given by --pmid")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("session")
	if path == "" {
		return fmt.Errorf("--session is required")
	}

	sess, err := session.Load(path)
	if err != nil {
		return err
	}

	pmid, _ := cmd.Flags().GetString("pmid")
	note, _ := cmd.Flags().GetString("note")
	filter, _ := cmd.Flags().GetString("filter")

	if pmid == "" {
		sess.Filter = filter
		if err := sess.Save(path); err != nil {
			return err
		}
		pipeline.FormatTable(sess.Filtered(), os.Stdout)
		return nil
	}

	if err := sess.Select(pmid); err != nil {
		return err
	}
	if note != "" {
		if err := sess.SetNote(pmid, note); err != nil {
			return err
		}
	}
	if err := sess.Save(path); err != nil {
		return err
	}

	paper := sess.Find(pmid)
	pipeline.FormatDetail(*paper, os.Stdout)
	if existing := sess.Notes[pmid]; existing != "" {
		fmt.Fprintf(os.Stdout, "Note:\n  %s\n", existing)
	}
	return nil
}
