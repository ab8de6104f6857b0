// Package output renders an AnalysisReport as text, JSON or a table.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/naka-gawa/conflict-risk/internal/config"
	"github.com/naka-gawa/conflict-risk/internal/domain"
)

// Print writes the report to w in the format selected by cfg.Output.
func Print(w io.Writer, r *domain.AnalysisReport, cfg *config.Config) error {
	switch cfg.Output {
	case config.JSONOutput:
		if err := WriteJSON(w, r); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case config.TableOutput:
		if err := WriteTable(w, r, cfg.HotspotPercentile); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	default:
		if err := WriteText(w, r); err != nil {
			return fmt.Errorf("error writing text output: %w", err)
		}
	}
	return nil
}

// WriteText prints the headline counters on their own, then every report field as "key: value".
func WriteText(w io.Writer, r *domain.AnalysisReport) error {
	var b strings.Builder
	for _, h := range []struct {
		key   string
		value int
	}{
		{"commit_history_size", r.CommitHistorySize},
		{"num_contributors", r.NumContributors},
		{"num_open_pulls", r.NumOpenPulls},
	} {
		fmt.Fprintf(&b, "\n--- %s ---\n%d\n", h.key, h.value)
	}
	b.WriteString("\n--- Conflict Risk Assessment ---\n")
	for _, f := range fields(r) {
		fmt.Fprintf(&b, "%s: %s\n", f[0], f[1])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON prints the report as indented JSON.
func WriteJSON(w io.Writer, r *domain.AnalysisReport) error {
	jsonData, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// fields returns the report as ordered key/value pairs.
func fields(r *domain.AnalysisReport) [][2]string {
	return [][2]string{
		{"repository", r.Repository},
		{"num_contributors", strconv.Itoa(r.NumContributors)},
		{"num_open_pulls", strconv.Itoa(r.NumOpenPulls)},
		{"frequently_modified_files", formatFileCounts(r.FrequentlyModifiedFiles)},
		{"recent_merge_conflicts", strconv.Itoa(r.RecentMergeConflicts)},
		{"large_pull_requests", strconv.Itoa(r.LargePullRequests)},
		{"branching_strategy_notes", r.BranchingStrategyNotes},
		{"risk_score", formatScore(r.RiskScore)},
		{"risk_level", string(r.RiskLevel)},
		{"count_of_modified_files", strconv.Itoa(r.CountOfModifiedFiles)},
		{"commit_history_size", strconv.Itoa(r.CommitHistorySize)},
		{"disparity_in_location", strconv.Itoa(r.DisparityInLocation)},
	}
}

// formatFileCounts renders the file map with paths in lexical order, e.g. "{a: 1, b: 2}".
func formatFileCounts(files map[string]int) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = fmt.Sprintf("%s: %d", p, files[p])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
