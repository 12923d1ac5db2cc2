package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/profile-generator/internal/logger"
	"alfredoptarigan/profile-generator/internal/models"
)

var ErrInvalidGitHubURL = errors.New("invalid GitHub URL format")

var githubUserPattern = regexp.MustCompile(`github\.com/([^/?#\s]+)`)

// UpstreamFetchError means the GitHub API could not be reached or answered
// with a non-2xx status.
type UpstreamFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch GitHub data from %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch GitHub data from %s: %v", e.URL, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

type GitHubService interface {
	FetchProfileAndRepos(ctx context.Context, profileURL string) (*models.GitHubData, error)
}

type GitHubOptions struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	MaxRepos int
	PerPage  int
}

type githubService struct {
	opts GitHubOptions
}

func NewGitHubService(opts GitHubOptions) GitHubService {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.github.com"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRepos <= 0 {
		opts.MaxRepos = 6
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 10
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	return &githubService{opts: opts}
}

// ExtractUsername returns the account name from a github.com profile URL.
func ExtractUsername(profileURL string) (string, error) {
	match := githubUserPattern.FindStringSubmatch(profileURL)
	if match == nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidGitHubURL, profileURL)
	}
	return match[1], nil
}

// FetchProfileAndRepos implements GitHubService. Forks and empty repositories
// are dropped and the list is capped at MaxRepos, keeping the API order.
func (g *githubService) FetchProfileAndRepos(ctx context.Context, profileURL string) (*models.GitHubData, error) {
	username, err := ExtractUsername(profileURL)
	if err != nil {
		return nil, err
	}

	var profile models.GitHubProfile
	if err := g.getJSON(ctx, "/users/"+url.PathEscape(username), &profile); err != nil {
		return nil, err
	}
	if profile.Login == "" {
		profile.Login = username
	}

	var repos []models.Repository
	reposPath := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=%d", url.PathEscape(username), g.opts.PerPage)
	if err := g.getJSON(ctx, reposPath, &repos); err != nil {
		return nil, err
	}

	eligible := filterRepositories(repos, g.opts.MaxRepos)
	g.attachReadmes(ctx, profile.Login, eligible)

	logger.Log.Infof("📦 Fetched GitHub profile %s with %d eligible repositories", profile.Login, len(eligible))

	return &models.GitHubData{
		Profile:      profile,
		Repositories: eligible,
	}, nil
}

func filterRepositories(repos []models.Repository, limit int) []models.Repository {
	eligible := make([]models.Repository, 0, limit)
	for _, repo := range repos {
		if repo.Fork || repo.Size <= 0 {
			continue
		}
		eligible = append(eligible, repo)
		if len(eligible) == limit {
			break
		}
	}
	return eligible
}

// attachReadmes fills Readme in place. A missing or unreadable README is
// left empty rather than failing the fetch.
func (g *githubService) attachReadmes(ctx context.Context, owner string, repos []models.Repository) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(3)

	for i := range repos {
		repo := &repos[i]
		eg.Go(func() error {
			readme, err := g.fetchReadme(egCtx, owner, repo.Name)
			if err != nil {
				logger.Log.Debugf("README unavailable for %s/%s: %v", owner, repo.Name, err)
				return nil
			}
			repo.Readme = readme
			return nil
		})
	}

	_ = eg.Wait()
}

func (g *githubService) fetchReadme(ctx context.Context, owner, repo string) (string, error) {
	path := fmt.Sprintf("/repos/%s/%s/readme", url.PathEscape(owner), url.PathEscape(repo))

	code, body, err := g.get(ctx, path, "application/vnd.github.raw+json")
	if err != nil {
		return "", err
	}
	if code == fiber.StatusNotFound {
		return "", nil
	}
	if code < 200 || code > 299 {
		return "", fmt.Errorf("unexpected status %d", code)
	}

	return string(body), nil
}

func (g *githubService) getJSON(ctx context.Context, path string, target interface{}) error {
	fullURL := g.opts.BaseURL + path

	code, body, err := g.get(ctx, path, "application/vnd.github+json")
	if err != nil {
		return &UpstreamFetchError{URL: fullURL, Err: err}
	}
	if code < 200 || code > 299 {
		return &UpstreamFetchError{URL: fullURL, StatusCode: code}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &UpstreamFetchError{URL: fullURL, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (g *githubService) get(ctx context.Context, path, accept string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	agent := fiber.Get(g.opts.BaseURL + path)
	agent.Set(fiber.HeaderAccept, accept)
	agent.Set(fiber.HeaderUserAgent, "profile-generator")
	if g.opts.Token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+g.opts.Token)
	}
	agent.Timeout(g.opts.Timeout)
	agent.MaxRedirectsCount(3)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, fmt.Errorf("invalid request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, errors.Join(errs...)
	}

	return code, body, nil
}
