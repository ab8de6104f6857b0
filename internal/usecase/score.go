package usecase

import (
	"github.com/naka-gawa/conflict-risk/internal/config"
	"github.com/naka-gawa/conflict-risk/internal/domain"
)

// RiskScore computes the weighted linear risk score of a report.
// The modified-files count is weighted twice, once through the raw map length and once
// through CountOfModifiedFiles; both terms are intentional.
func RiskScore(r *domain.AnalysisReport, w config.Weights) float64 {
	score := 0.0
	score += float64(r.NumContributors) * w.Contributors
	score += float64(r.NumOpenPulls) * w.OpenPulls
	score += float64(len(r.FrequentlyModifiedFiles)) * w.ModifiedFiles
	score += float64(r.RecentMergeConflicts) * w.MergeConflicts
	score += float64(r.LargePullRequests) * w.LargePulls
	score += float64(r.CountOfModifiedFiles) * w.ModifiedFilesCount
	score += float64(r.CommitHistorySize) * w.CommitHistory
	return score
}

// ClassifyRisk maps a score onto a risk level. Both thresholds are exclusive lower bounds.
func ClassifyRisk(score, medium, high float64) domain.RiskLevel {
	switch {
	case score > high:
		return domain.RiskHigh
	case score > medium:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// ClassifyBranches returns the branching strategy note for a set of branch names.
func ClassifyBranches(names []string) string {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	switch {
	case present["main"] && present["develop"]:
		return domain.BranchNoteGitflow
	case present["main"] || present["master"]:
		return domain.BranchNotePrimary
	default:
		return domain.BranchNoteUnknown
	}
}

// CountUnmergedClosed counts closed pull requests that have neither a merge commit
// nor a merge timestamp.
func CountUnmergedClosed(pulls []domain.ClosedPullRequest) int {
	n := 0
	for _, p := range pulls {
		if p.UnmergedWithoutCommit() {
			n++
		}
	}
	return n
}
