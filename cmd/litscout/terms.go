// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litscout/internal/llm"
	"github.com/pdiddy/litscout/internal/terms"
)

var termsCmd = &cobra.Command{
	Use:   "terms [discussion text]",
	Short: "Print the search terms generated for discussion content",
	Long: `Terms runs only the term-generation stage and prints the PubMed queries
that recommend would search with. Useful for tuning discussion text.`,
	RunE: runTerms,
}

func init() {
	termsCmd.Flags().String("file", "", "read discussion content from a file")
	termsCmd.Flags().String("model", "", "completion model identifier")

	rootCmd.AddCommand(termsCmd)
}

func runTerms(cmd *cobra.Command, args []string) error {
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

	backend := llm.NewOpenAIBackend(aiCfg, log)
	for _, term := range terms.Generate(cmd.Context(), backend, discussion) {
		fmt.Fprintln(os.Stdout, term)
	}
	return nil
}
