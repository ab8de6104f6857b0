package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naka-gawa/conflict-risk/internal/gateway"
	"github.com/naka-gawa/conflict-risk/internal/output"
	"github.com/naka-gawa/conflict-risk/internal/usecase"
)

const repositoryPrompt = "Enter the GitHub repository name (e.g., facebook/react): "

// newFetcher builds the GitHub client handle; tests replace it.
var newFetcher = gateway.NewGitHubGateway

var analyzeCmd = &cobra.Command{
	Use:   "analyze [owner/name]",
	Short: "Scores the merge conflict risk of a repository",
	Long: `Queries the GitHub API for one repository and prints a merge conflict risk report.
If no repository is given on the command line it is read from standard input.

The score is a weighted sum of contributors, open pull requests, modified files,
unmerged closed pull requests, large open pull requests and commit history size.
With --legacy-history-ordering the commit history size is counted after scoring,
so that term contributes nothing, matching older reports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Get the verbose flag from the root command to set up the logger.
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
	if verbose {
		logger.SetOutput(cmd.ErrOrStderr()) // If verbose, log to standard error.
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return errors.New("GITHUB_TOKEN environment variable is not set")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var repository string
	if len(args) == 1 {
		repository = args[0]
	} else {
		repository, err = readRepository(cmd.InOrStdin(), cmd.OutOrStdout(), isTerminal(cmd.InOrStdin()))
		if err != nil {
			return err
		}
	}

	if cfg.LegacyHistoryOrdering {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: legacy-history-ordering is enabled; commit_history_size does not contribute to risk_score.")
	}

	// Inject dependencies and run the main business logic.
	fetcher, err := newFetcher(token, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	analyzer := usecase.NewAnalyzer(fetcher, cfg, logger)

	report, err := analyzer.Analyze(ctx, repository)
	if err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), report, cfg)
}

// readRepository reads one repository identifier line, showing the prompt only to a terminal.
func readRepository(in io.Reader, out io.Writer, interactive bool) (string, error) {
	if interactive {
		fmt.Fprint(out, repositoryPrompt)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read repository name: %w", err)
	}
	repository := strings.TrimSpace(line)
	if repository == "" {
		return "", errors.New("no repository name given")
	}
	return repository, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	flags := analyzeCmd.Flags()
	flags.StringP("output", "o", "text", "Output format: text, json, table")
	flags.Int("large-pull-request-lines", 500, "Changed lines above which an open pull request counts as large")
	flags.Int("closed-pull-request-window", 50, "Number of most recently updated closed pull requests to inspect")
	flags.Float64("medium-threshold", 25, "Scores above this are Medium")
	flags.Float64("high-threshold", 50, "Scores above this are High")
	flags.Bool("legacy-history-ordering", false, "Score before the commit history size is known (history term contributes 0)")
	flags.Float64("hotspot-percentile", 90, "Percentile of modification counts listed as hotspots in table output")
	for _, name := range []string{
		"output",
		"large-pull-request-lines",
		"closed-pull-request-window",
		"medium-threshold",
		"high-threshold",
		"legacy-history-ordering",
		"hotspot-percentile",
	} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}
