// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/conflict-risk/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "conflict-risk",
	Short: "A CLI tool to estimate the merge conflict risk of a GitHub repository.",
	Long: `conflict-risk reads a repository's contributors, pull requests, commit history
and branches from the GitHub API and turns them into a heuristic merge conflict
risk score with a Low, Medium or High classification.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is .conflict-risk.yaml in . or $HOME)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".conflict-risk")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// CONFLICT_RISK_WEIGHTS_OPEN_PULLS overrides weights.open-pulls, and so on.
	viper.SetEnvPrefix("CONFLICT_RISK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	setDefaults()
}

// setDefaults registers every key so that env vars and Unmarshal can see it.
func setDefaults() {
	d := config.Default()
	viper.SetDefault("weights.contributors", d.Weights.Contributors)
	viper.SetDefault("weights.open-pulls", d.Weights.OpenPulls)
	viper.SetDefault("weights.modified-files", d.Weights.ModifiedFiles)
	viper.SetDefault("weights.merge-conflicts", d.Weights.MergeConflicts)
	viper.SetDefault("weights.large-pulls", d.Weights.LargePulls)
	viper.SetDefault("weights.modified-files-count", d.Weights.ModifiedFilesCount)
	viper.SetDefault("weights.commit-history", d.Weights.CommitHistory)
	viper.SetDefault("large-pull-request-lines", d.LargePullRequestLines)
	viper.SetDefault("closed-pull-request-window", d.ClosedPullRequestWindow)
	viper.SetDefault("medium-threshold", d.MediumThreshold)
	viper.SetDefault("high-threshold", d.HighThreshold)
	viper.SetDefault("legacy-history-ordering", d.LegacyHistoryOrdering)
	viper.SetDefault("output", d.Output)
	viper.SetDefault("hotspot-percentile", d.HotspotPercentile)
}

// loadConfig merges defaults, config file, env and flags, then validates the result.
func loadConfig() (*config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	cfg := config.Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
