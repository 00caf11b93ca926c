// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litscout CLI.
// Implements: prd006-cli (command surface);
//
//	docs/ARCHITECTURE § CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/litscout/internal/secrets"
	"github.com/pdiddy/litscout/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

const defaultUserAgent = "litscout/0.1"

// setting resolves one configuration value: flag value if set, then viper
// (config file / LITSCOUT_* env), then the secrets directory.
func setting(flagValue, viperKey, secretKey string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	return loadedSecrets[secretKey]
}

// rootCmd is the base command for the litscout CLI.
var rootCmd = &cobra.Command{
	Use:   "litscout",
	Short: "Rank biomedical papers against discussion content",
	Long: `litscout takes free-text discussion content and returns a ranked list of
biomedical papers relevant to it. Paper metadata comes from PubMed; search
terms, relevance scores, and summaries come from a completion API.

Start with 'litscout recommend', then browse the saved session with
'litscout show' and grow it with 'litscout expand'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./litscout.yaml or ~/.config/litscout/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litscout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litscout"))
		}
	}

	viper.SetEnvPrefix("LITSCOUT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildLogger returns a development logger when --verbose is set, a nop
// logger otherwise.
func buildLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// pubmedConfig assembles the literature-client settings from config and
// secrets.
func pubmedConfig() types.PubMedConfig {
	cfg := types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("pubmed.timeout"),
			UserAgent: defaultUserAgent,
		},
		APIKey:       setting("", "pubmed.api_key", "ncbi-api-key"),
		Email:        setting("", "pubmed.email", "ncbi-email"),
		RequestDelay: viper.GetDuration("pubmed.request_delay"),
		RetryDelay:   viper.GetDuration("pubmed.retry_delay"),
		BatchSize:    viper.GetInt("pubmed.batch_size"),
	}
	return cfg
}

// aiConfig assembles the completion-API settings. The model flag overrides
// the config file.
func aiConfig(modelFlag string) (types.AIConfig, error) {
	cfg := types.AIConfig{
		Model:   setting(modelFlag, "ai.model", ""),
		APIKey:  setting("", "ai.api_key", "openai-api-key"),
		BaseURL: setting("", "ai.base_url", "openai-base-url"),
		Timeout: viper.GetDuration("ai.timeout"),
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("no completion API key: set ai.api_key, LITSCOUT_AI_API_KEY, or .secrets/openai-api-key")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
