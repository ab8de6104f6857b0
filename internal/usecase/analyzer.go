// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/naka-gawa/conflict-risk/internal/config"
	"github.com/naka-gawa/conflict-risk/internal/domain"
	"github.com/naka-gawa/conflict-risk/internal/gateway"
)

// AccessError is returned when the repository cannot be resolved, either because the
// identifier is malformed or because the API refused or failed the lookup.
type AccessError struct {
	Repository string
	Err        error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("could not access repository %s: %v", e.Repository, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// ParseRepository splits an "owner/name" identifier.
func ParseRepository(identifier string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(identifier), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", errors.New("repository must be in the form owner/name")
	}
	return owner, name, nil
}

// Analyzer is the use case for assessing the merge conflict risk of a repository.
// It issues a fixed, sequential series of queries and tallies the results.
type Analyzer struct {
	fetcher gateway.Fetcher
	cfg     *config.Config
	logger  *log.Logger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, cfg *config.Config, logger *log.Logger) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Analyze performs the main business logic.
// Only repository resolution yields an AccessError. Failures on a single commit or pull
// request are logged and skipped; failures of a whole listing abort the run.
func (a *Analyzer) Analyze(ctx context.Context, identifier string) (*domain.AnalysisReport, error) {
	owner, name, err := ParseRepository(identifier)
	if err != nil {
		return nil, &AccessError{Repository: identifier, Err: err}
	}
	repo, err := a.fetcher.FetchRepository(ctx, owner, name)
	if err != nil {
		return nil, &AccessError{Repository: identifier, Err: err}
	}

	report := domain.NewAnalysisReport(identifier)

	a.logger.Println("[1/8] Counting contributors...")
	if report.NumContributors, err = a.fetcher.CountContributors(ctx, owner, name); err != nil {
		return nil, err
	}

	a.logger.Println("[2/8] Counting open pull requests...")
	if report.NumOpenPulls, err = a.fetcher.CountOpenPullRequests(ctx, owner, name); err != nil {
		return nil, err
	}

	a.logger.Printf("[3/8] Scanning commits since %s...\n", repo.CreatedAt.Format("2006-01-02"))
	if err := a.tallyModifiedFiles(ctx, owner, name, repo, report); err != nil {
		return nil, err
	}

	a.logger.Println("[4/8] Measuring open pull request sizes...")
	if report.LargePullRequests, err = a.countLargePullRequests(ctx, owner, name); err != nil {
		return nil, err
	}

	a.logger.Println("[5/8] Classifying branches...")
	branches, err := a.fetcher.ListBranchNames(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	report.BranchingStrategyNotes = ClassifyBranches(branches)

	a.logger.Printf("[6/8] Checking the last %d closed pull requests...\n", a.cfg.ClosedPullRequestWindow)
	closed, err := a.fetcher.ListRecentClosedPullRequests(ctx, owner, name, a.cfg.ClosedPullRequestWindow)
	if err != nil {
		return nil, err
	}
	report.RecentMergeConflicts = CountUnmergedClosed(closed)

	a.logger.Println("[7/8] Counting commit history...")
	report.CountOfModifiedFiles = len(report.FrequentlyModifiedFiles)
	report.DisparityInLocation = report.CountFilesUnder(domain.SourceLocationPath)
	historySize, err := a.fetcher.CountCommits(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	if !a.cfg.LegacyHistoryOrdering {
		report.CommitHistorySize = historySize
	}

	a.logger.Println("[8/8] Scoring...")
	report.RiskScore = RiskScore(report, a.cfg.Weights)
	report.RiskLevel = ClassifyRisk(report.RiskScore, a.cfg.MediumThreshold, a.cfg.HighThreshold)
	if a.cfg.LegacyHistoryOrdering {
		// The size is only recorded once the score is fixed.
		report.CommitHistorySize = historySize
	}

	return report, nil
}

// tallyModifiedFiles adds one to every file touched by each commit since the repository
// was created. This walks the full history one commit at a time.
func (a *Analyzer) tallyModifiedFiles(ctx context.Context, owner, name string, repo *domain.Repository, report *domain.AnalysisReport) error {
	shas, err := a.fetcher.ListCommitSHAs(ctx, owner, name, repo.CreatedAt)
	if err != nil {
		return err
	}
	for _, sha := range shas {
		files, err := a.fetcher.FetchCommitFiles(ctx, owner, name, sha)
		if err != nil {
			a.logger.Printf("Error processing commit %s: %v\n", sha, err)
			continue
		}
		report.RecordFiles(files)
	}
	return nil
}

// countLargePullRequests re-lists the open pull requests and counts those whose
// additions plus deletions exceed the configured line threshold.
func (a *Analyzer) countLargePullRequests(ctx context.Context, owner, name string) (int, error) {
	numbers, err := a.fetcher.ListOpenPullRequestNumbers(ctx, owner, name)
	if err != nil {
		return 0, err
	}
	large := 0
	for _, number := range numbers {
		additions, deletions, err := a.fetcher.FetchPullRequestSize(ctx, owner, name, number)
		if err != nil {
			a.logger.Printf("Error processing pull request %d: %v\n", number, err)
			continue
		}
		if additions+deletions > a.cfg.LargePullRequestLines {
			large++
		}
	}
	return large, nil
}
