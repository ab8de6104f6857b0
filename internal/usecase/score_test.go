package usecase

import (
	"testing"

	"github.com/naka-gawa/conflict-risk/internal/config"
	"github.com/naka-gawa/conflict-risk/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk_Boundaries(t *testing.T) {
	testCases := []struct {
		score    float64
		expected domain.RiskLevel
	}{
		{0, domain.RiskLow},
		{25.0, domain.RiskLow},
		{25.0001, domain.RiskMedium},
		{50.0, domain.RiskMedium},
		{50.0001, domain.RiskHigh},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ClassifyRisk(tc.score, 25, 50), "score %v", tc.score)
	}
}

func TestClassifyBranches(t *testing.T) {
	testCases := []struct {
		name     string
		branches []string
		expected string
	}{
		{"main and develop", []string{"develop", "main"}, domain.BranchNoteGitflow},
		{"main only", []string{"main"}, domain.BranchNotePrimary},
		{"master only", []string{"master"}, domain.BranchNotePrimary},
		{"master and develop", []string{"master", "develop"}, domain.BranchNotePrimary},
		{"feature only", []string{"feature-x"}, domain.BranchNoteUnknown},
		{"no branches", nil, domain.BranchNoteUnknown},
		{"membership is exact", []string{"main-old", "Develop"}, domain.BranchNoteUnknown},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyBranches(tc.branches))
		})
	}
}

func TestCountUnmergedClosed(t *testing.T) {
	sha := "abc"
	merged := createdAt
	pulls := []domain.ClosedPullRequest{
		{Number: 1},
		{Number: 2, MergedAt: &merged},
		{Number: 3, MergeCommitSHA: &sha},
		{Number: 4, MergeCommitSHA: &sha, MergedAt: &merged},
	}
	assert.Equal(t, 1, CountUnmergedClosed(pulls))
	assert.Equal(t, 0, CountUnmergedClosed(nil))
}

func TestRiskScore(t *testing.T) {
	r := &domain.AnalysisReport{
		NumContributors:         10,
		NumOpenPulls:            4,
		FrequentlyModifiedFiles: map[string]int{"a": 1, "b": 2, "c": 3},
		RecentMergeConflicts:    2,
		LargePullRequests:       1,
		CountOfModifiedFiles:    3,
		CommitHistorySize:       200,
	}
	// 5 + 4 + 0.6 + 6 + 2 + 0.3 + 2
	assert.InDelta(t, 19.9, RiskScore(r, config.DefaultWeights()), 1e-9)

	w := config.DefaultWeights()
	w.ModifiedFilesCount = 0
	assert.InDelta(t, 19.6, RiskScore(r, w), 1e-9)
}
