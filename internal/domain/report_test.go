package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalysisReport(t *testing.T) {
	r := NewAnalysisReport("octo/app")
	assert.Equal(t, "octo/app", r.Repository)
	assert.NotNil(t, r.FrequentlyModifiedFiles)
	assert.Equal(t, BranchNoteDefault, r.BranchingStrategyNotes)
	assert.Equal(t, RiskLow, r.RiskLevel)
}

func TestAnalysisReport_RecordFiles(t *testing.T) {
	r := NewAnalysisReport("octo/app")
	r.RecordFiles([]string{"src/a.py", "README.md"})
	r.RecordFiles([]string{"src/a.py"})
	r.RecordFiles(nil)
	r.RecordFiles([]string{"src/a.py", "srcfile.go", "lib/src/x.go"})

	assert.Equal(t, map[string]int{
		"src/a.py":     3,
		"README.md":    1,
		"srcfile.go":   1,
		"lib/src/x.go": 1,
	}, r.FrequentlyModifiedFiles)

	under := r.CountFilesUnder(SourceLocationPath)
	assert.Equal(t, 1, under)
	assert.LessOrEqual(t, under, len(r.FrequentlyModifiedFiles))
}

func TestClosedPullRequest_UnmergedWithoutCommit(t *testing.T) {
	sha := "abc"
	assert.True(t, ClosedPullRequest{Number: 1}.UnmergedWithoutCommit())
	assert.False(t, ClosedPullRequest{Number: 2, MergeCommitSHA: &sha}.UnmergedWithoutCommit())
}
