// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"strings"
	"time"
)

// RiskLevel is the three-level classification of a risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Branching strategy notes, from the most specific to the fallback.
const (
	BranchNoteDefault  = "Analysis of branching strategy is basic and may require manual review."
	BranchNoteGitflow  = "Detected 'main' and 'develop' branches, potentially indicating a Gitflow-like strategy."
	BranchNotePrimary  = "Detected a primary branch ('main' or 'master')."
	BranchNoteUnknown  = "Could not easily identify a standard branching strategy."
	SourceLocationPath = "src/"
)

// Repository is the subset of repository metadata the analysis needs.
type Repository struct {
	FullName  string
	CreatedAt time.Time
}

// ClosedPullRequest carries the merge markers of a closed pull request.
// A nil pointer means the API returned no value for that field.
type ClosedPullRequest struct {
	Number         int
	MergeCommitSHA *string
	MergedAt       *time.Time
}

// UnmergedWithoutCommit reports whether the pull request was closed with neither a
// merge commit nor a merge timestamp. This also matches PRs closed for reasons other
// than conflicts.
func (p ClosedPullRequest) UnmergedWithoutCommit() bool {
	return p.MergeCommitSHA == nil && p.MergedAt == nil
}

// AnalysisReport is the result of a single conflict-risk run.
// It is the core domain entity of this application.
type AnalysisReport struct {
	Repository              string         `json:"repository"`
	NumContributors         int            `json:"num_contributors"`
	NumOpenPulls            int            `json:"num_open_pulls"`
	FrequentlyModifiedFiles map[string]int `json:"frequently_modified_files"`
	RecentMergeConflicts    int            `json:"recent_merge_conflicts"`
	LargePullRequests       int            `json:"large_pull_requests"`
	BranchingStrategyNotes  string         `json:"branching_strategy_notes"`
	RiskScore               float64        `json:"risk_score"`
	RiskLevel               RiskLevel      `json:"risk_level"`
	CountOfModifiedFiles    int            `json:"count_of_modified_files"`
	CommitHistorySize       int            `json:"commit_history_size"`
	DisparityInLocation     int            `json:"disparity_in_location"`
}

// NewAnalysisReport returns an empty report for the given repository.
func NewAnalysisReport(repository string) *AnalysisReport {
	return &AnalysisReport{
		Repository:              repository,
		FrequentlyModifiedFiles: make(map[string]int),
		BranchingStrategyNotes:  BranchNoteDefault,
		RiskLevel:               RiskLow,
	}
}

// RecordFiles increments the modification count of every path by one.
func (r *AnalysisReport) RecordFiles(paths []string) {
	for _, p := range paths {
		r.FrequentlyModifiedFiles[p]++
	}
}

// CountFilesUnder returns how many distinct modified paths start with prefix.
func (r *AnalysisReport) CountFilesUnder(prefix string) int {
	n := 0
	for path := range r.FrequentlyModifiedFiles {
		if strings.HasPrefix(path, prefix) {
			n++
		}
	}
	return n
}
