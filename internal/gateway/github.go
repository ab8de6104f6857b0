// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/conflict-risk/internal/domain"
)

const perPage = 100

// Fetcher defines the behavior of a gateway for fetching repository information from GitHub.
// List methods fail as a whole; per-item methods let the caller skip a single bad item.
type Fetcher interface {
	FetchRepository(ctx context.Context, owner, name string) (*domain.Repository, error)
	CountContributors(ctx context.Context, owner, name string) (int, error)
	CountOpenPullRequests(ctx context.Context, owner, name string) (int, error)
	ListCommitSHAs(ctx context.Context, owner, name string, since time.Time) ([]string, error)
	FetchCommitFiles(ctx context.Context, owner, name, sha string) ([]string, error)
	ListOpenPullRequestNumbers(ctx context.Context, owner, name string) ([]int, error)
	FetchPullRequestSize(ctx context.Context, owner, name string, number int) (additions, deletions int, err error)
	ListBranchNames(ctx context.Context, owner, name string) ([]string, error)
	ListRecentClosedPullRequests(ctx context.Context, owner, name string, limit int) ([]domain.ClosedPullRequest, error)
	CountCommits(ctx context.Context, owner, name string) (int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// openPullRequestCountQuery asks only for the total, so no pagination is needed.
type openPullRequestCountQuery struct {
	Repository struct {
		PullRequests struct {
			TotalCount int
		} `graphql:"pullRequests(states: OPEN)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// commitHistoryQuery counts every commit reachable from the default branch.
type commitHistoryQuery struct {
	Repository struct {
		DefaultBranchRef struct {
			Target struct {
				Commit struct {
					History struct {
						TotalCount int
					}
				} `graphql:"... on Commit"`
			}
		}
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) FetchRepository(ctx context.Context, owner, name string) (*domain.Repository, error) {
	repo, _, err := g.restClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}
	return &domain.Repository{
		FullName:  repo.GetFullName(),
		CreatedAt: repo.GetCreatedAt().Time,
	}, nil
}

func (g *GitHubGateway) CountContributors(ctx context.Context, owner, name string) (int, error) {
	opts := &github.ListContributorsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	count := 0
	for {
		contributors, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, name, opts)
		if err != nil {
			return 0, fmt.Errorf("failed to list contributors: %w", err)
		}
		count += len(contributors)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of contributors...")
	}
	return count, nil
}

func (g *GitHubGateway) CountOpenPullRequests(ctx context.Context, owner, name string) (int, error) {
	var q openPullRequestCountQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for open pull requests: %w", err)
	}
	return q.Repository.PullRequests.TotalCount, nil
}

func (g *GitHubGateway) ListCommitSHAs(ctx context.Context, owner, name string, since time.Time) ([]string, error) {
	opts := &github.CommitsListOptions{Since: since, ListOptions: github.ListOptions{PerPage: perPage}}
	var shas []string
	for {
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits: %w", err)
		}
		for _, c := range commits {
			shas = append(shas, c.GetSHA())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of commits...")
	}
	return shas, nil
}

func (g *GitHubGateway) FetchCommitFiles(ctx context.Context, owner, name, sha string) ([]string, error) {
	opts := &github.ListOptions{PerPage: perPage}
	var files []string
	for {
		commit, resp, err := g.restClient.Repositories.GetCommit(ctx, owner, name, sha, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to get commit %s: %w", sha, err)
		}
		for _, f := range commit.Files {
			files = append(files, f.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}

func (g *GitHubGateway) ListOpenPullRequestNumbers(ctx context.Context, owner, name string) ([]int, error) {
	opts := &github.PullRequestListOptions{State: "open", ListOptions: github.ListOptions{PerPage: perPage}}
	var numbers []int
	for {
		pulls, resp, err := g.restClient.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list open pull requests: %w", err)
		}
		for _, pr := range pulls {
			numbers = append(numbers, pr.GetNumber())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of open pull requests...")
	}
	return numbers, nil
}

// FetchPullRequestSize reads additions and deletions, which the list endpoint omits.
func (g *GitHubGateway) FetchPullRequestSize(ctx context.Context, owner, name string, number int) (int, int, error) {
	pr, _, err := g.restClient.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return pr.GetAdditions(), pr.GetDeletions(), nil
}

func (g *GitHubGateway) ListBranchNames(ctx context.Context, owner, name string) ([]string, error) {
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	var names []string
	for {
		branches, resp, err := g.restClient.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches: %w", err)
		}
		for _, b := range branches {
			names = append(names, b.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

// ListRecentClosedPullRequests returns at most limit closed pull requests, most recently updated first.
func (g *GitHubGateway) ListRecentClosedPullRequests(ctx context.Context, owner, name string, limit int) ([]domain.ClosedPullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: min(limit, perPage)},
	}
	result := make([]domain.ClosedPullRequest, 0, limit)
	for len(result) < limit {
		pulls, resp, err := g.restClient.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list closed pull requests: %w", err)
		}
		for _, pr := range pulls {
			if len(result) == limit {
				break
			}
			closed := domain.ClosedPullRequest{
				Number:         pr.GetNumber(),
				MergeCommitSHA: pr.MergeCommitSHA,
			}
			if pr.MergedAt != nil {
				mergedAt := pr.MergedAt.Time
				closed.MergedAt = &mergedAt
			}
			result = append(result, closed)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return result, nil
}

func (g *GitHubGateway) CountCommits(ctx context.Context, owner, name string) (int, error) {
	var q commitHistoryQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for commit history: %w", err)
	}
	return q.Repository.DefaultBranchRef.Target.Commit.History.TotalCount, nil
}
