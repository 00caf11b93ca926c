// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litscout/internal/llm"
	"github.com/pdiddy/litscout/internal/pipeline"
	"github.com/pdiddy/litscout/internal/pubmed"
	"github.com/pdiddy/litscout/internal/session"
	"github.com/pdiddy/litscout/pkg/types"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [discussion text]",
	Short: "Rank PubMed papers against discussion content",
	Long: `Recommend takes discussion content (as an argument, from --file, or from
stdin), identifies the subject paper when one is mentioned, expands its
references, searches PubMed with generated terms, and prints one ranked,
deduplicated paper list.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().String("file", "", "read discussion content from a file")
	recommendCmd.Flags().Int("max-results", 20, "maximum total papers to return")
	recommendCmd.Flags().Bool("expand-references", true, "expand the subject paper's references")
	recommendCmd.Flags().Bool("expand-citations", true, "allow citation expansion on the saved session")
	recommendCmd.Flags().String("model", "", "completion model identifier")
	recommendCmd.Flags().Bool("json", false, "output results as JSON")
	recommendCmd.Flags().String("session", "", "save the result set to a session file")

	rootCmd.AddCommand(recommendCmd)
}

// readDiscussion collects the discussion text from the argument, --file, or
// stdin, in that order of preference.
func readDiscussion(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading discussion file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading discussion from stdin: %w", err)
	}
	return string(data), nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	discussion, err := readDiscussion(cmd, args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(discussion) == "" {
		return fmt.Errorf("discussion content is empty")
	}

	modelFlag, _ := cmd.Flags().GetString("model")
	aiCfg, err := aiConfig(modelFlag)
	if err != nil {
		return err
	}

	log := buildLogger(cmd)
	defer log.Sync()

	pipeCfg := types.DefaultPipelineConfig()
	pipeCfg.MaxResults, _ = cmd.Flags().GetInt("max-results")
	pipeCfg.ExpandReferences, _ = cmd.Flags().GetBool("expand-references")
	pipeCfg.ExpandCitations, _ = cmd.Flags().GetBool("expand-citations")

	meta := pubmed.NewClient(pubmedConfig(), log)
	backend := llm.NewOpenAIBackend(aiCfg, log)
	pipe := pipeline.New(meta, backend, pipeCfg, log)

	results, err := pipe.Run(cmd.Context(), discussion, os.Stderr)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		if err := pipeline.FormatJSON(results, os.Stdout); err != nil {
			return err
		}
	} else {
		pipeline.FormatTable(results, os.Stdout)
	}

	if path, _ := cmd.Flags().GetString("session"); path != "" {
		sess := session.New(discussion, results)
		sess.ExpandCitations = pipeCfg.ExpandCitations
		if err := sess.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Session saved to %s\n", path)
	}
	return nil
}
