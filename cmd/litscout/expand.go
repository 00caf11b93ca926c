// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litscout/internal/pipeline"
	"github.com/pdiddy/litscout/internal/pubmed"
	"github.com/pdiddy/litscout/internal/session"
	"github.com/pdiddy/litscout/pkg/types"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Fetch citing or referenced papers for a paper in a session",
	Long: `Expand grows a saved session: it fetches the papers citing the given PMID
and/or the papers it references, and merges new records into the session
without duplicating ones already present. Expanded papers carry a fixed
default score rather than a model rating.`,
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().String("session", "", "session file written by recommend (required)")
	expandCmd.Flags().String("pmid", "", "PMID of the paper to expand (required)")
	expandCmd.Flags().Bool("citations", false, "fetch citing papers")
	expandCmd.Flags().Bool("references", false, "expand referenced papers")

	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("session")
	pmid, _ := cmd.Flags().GetString("pmid")
	if path == "" || pmid == "" {
		return fmt.Errorf("both --session and --pmid are required")
	}

	citations, _ := cmd.Flags().GetBool("citations")
	references, _ := cmd.Flags().GetBool("references")
	if !citations && !references {
		return fmt.Errorf("nothing to do: pass --citations, --references, or both")
	}

	sess, err := session.Load(path)
	if err != nil {
		return err
	}

	log := buildLogger(cmd)
	defer log.Sync()

	meta := pubmed.NewClient(pubmedConfig(), log)
	// Expansion never calls the completion API; the pipeline runs without a
	// backend here. The citation gate follows what the session recorded.
	cfg := types.DefaultPipelineConfig()
	cfg.ExpandCitations = sess.ExpandCitations
	pipe := pipeline.New(meta, nil, cfg, log)

	if citations {
		added, err := pipe.ExpandCitations(cmd.Context(), sess, pmid)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "citations: %d new papers\n", added)
	}
	if references {
		added, err := pipe.ExpandReferences(cmd.Context(), sess, pmid)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "references: %d new papers\n", added)
	}

	if err := sess.Save(path); err != nil {
		return err
	}

	pipeline.FormatTable(sess.Papers, os.Stdout)
	return nil
}
