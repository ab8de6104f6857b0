package cmd

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/conflict-risk/internal/domain"
	"github.com/naka-gawa/conflict-risk/internal/gateway"
)

// stubFetcher answers every query with the same small repository.
type stubFetcher struct{}

func (stubFetcher) FetchRepository(_ context.Context, owner, name string) (*domain.Repository, error) {
	if owner != "octo" || name != "app" {
		return nil, errors.New("404 Not Found")
	}
	return &domain.Repository{FullName: "octo/app", CreatedAt: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}
func (stubFetcher) CountContributors(context.Context, string, string) (int, error) { return 3, nil }
func (stubFetcher) CountOpenPullRequests(context.Context, string, string) (int, error) { return 2, nil }
func (stubFetcher) ListCommitSHAs(context.Context, string, string, time.Time) ([]string, error) {
	return []string{"c1", "c2"}, nil
}
func (stubFetcher) FetchCommitFiles(_ context.Context, _, _, sha string) ([]string, error) {
	if sha == "c1" {
		return []string{"src/a.py", "README.md"}, nil
	}
	return []string{"src/a.py"}, nil
}
func (stubFetcher) ListOpenPullRequestNumbers(context.Context, string, string) ([]int, error) {
	return []int{1}, nil
}
func (stubFetcher) FetchPullRequestSize(context.Context, string, string, int) (int, int, error) {
	return 600, 0, nil
}
func (stubFetcher) ListBranchNames(context.Context, string, string) ([]string, error) {
	return []string{"master"}, nil
}
func (stubFetcher) ListRecentClosedPullRequests(context.Context, string, string, int) ([]domain.ClosedPullRequest, error) {
	return []domain.ClosedPullRequest{{Number: 5}}, nil
}
func (stubFetcher) CountCommits(context.Context, string, string) (int, error) { return 2, nil }

func useStubFetcher(t *testing.T) {
	original := newFetcher
	newFetcher = func(token string, logger *log.Logger) (gateway.Fetcher, error) {
		assert.Equal(t, "test-token", token)
		return stubFetcher{}, nil
	}
	t.Cleanup(func() { newFetcher = original })
}

func TestAnalyzeCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "test-token")
	useStubFetcher(t)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"analyze", "octo/app"})
	require.NoError(t, rootCmd.Execute())

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "\n--- commit_history_size ---\n2\n"))
	assert.Contains(t, out, "frequently_modified_files: {README.md: 1, src/a.py: 2}")
	assert.Contains(t, out, "branching_strategy_notes: Detected a primary branch ('main' or 'master').")
	assert.Contains(t, out, "recent_merge_conflicts: 1")
	assert.Contains(t, out, "large_pull_requests: 1")
	// 1.5 + 2 + 0.4 + 3 + 2 + 0.2 + 0.02 = 9.12
	assert.Contains(t, out, "risk_score: 9.12\n")
	assert.Contains(t, out, "risk_level: Low")
}

func TestAnalyzeCommand_MissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	var stderr bytes.Buffer
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"analyze", "octo/app"})
	err := rootCmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "Error: GITHUB_TOKEN environment variable is not set\n")
}

func TestReadRepository(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		interactive    bool
		expected       string
		expectedPrompt string
		expectError    bool
	}{
		{name: "interactive prompt", input: "facebook/react\n", interactive: true, expected: "facebook/react", expectedPrompt: repositoryPrompt},
		{name: "piped input without newline", input: "  octo/app ", expected: "octo/app"},
		{name: "empty input", input: "\n", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := readRepository(strings.NewReader(tc.input), &out, tc.interactive)
			assert.Equal(t, tc.expectedPrompt, out.String())
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
