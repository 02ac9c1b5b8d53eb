package github

import (
	"context"
	"net/http"
	"strconv"

	gh "github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"run-registry-service/internal/config"
	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

type actionsClient struct {
	client  *gh.Client
	owner   string
	repo    string
	enabled bool
}

// NewActionsClient creates the run-page integration adapter. Without a
// token it talks unauthenticated, which is enough for public repositories.
func NewActionsClient(cfg *config.GitHubConfig) ports.ActionsClient {
	if !cfg.Enabled {
		return &actionsClient{enabled: false}
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = cfg.Timeout
	}

	return &actionsClient{
		client:  gh.NewClient(httpClient),
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		enabled: true,
	}
}

func (c *actionsClient) IsAvailable() bool {
	return c.enabled
}

func (c *actionsClient) GetWorkflowRun(ctx context.Context, runID string) (*ports.RemoteRun, error) {
	if !c.enabled {
		return nil, domain.ErrActionsNotAvailable
	}

	id, err := strconv.ParseInt(runID, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidRunID
	}

	run, resp, err := c.client.Actions.GetWorkflowRunByID(ctx, c.owner, c.repo, id)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrRemoteRunNotFound
		}
		return nil, err
	}

	remote := &ports.RemoteRun{
		RunID:      strconv.FormatInt(run.GetID(), 10),
		Workflow:   run.GetName(),
		Status:     run.GetStatus(),
		Conclusion: run.GetConclusion(),
		Event:      run.GetEvent(),
		Branch:     run.GetHeadBranch(),
		CommitSHA:  run.GetHeadSHA(),
		URL:        run.GetHTMLURL(),
	}
	if ts := run.GetRunStartedAt(); !ts.IsZero() {
		t := ts.Time
		remote.StartedAt = &t
	}
	// The Actions API exposes no explicit finish time; updated_at of a
	// completed run is the closest stand-in.
	if run.GetStatus() == "completed" {
		if ts := run.GetUpdatedAt(); !ts.IsZero() {
			t := ts.Time
			remote.CompletedAt = &t
		}
	}
	return remote, nil
}

func (c *actionsClient) ListRunArtifacts(ctx context.Context, runID string) ([]string, error) {
	if !c.enabled {
		return nil, domain.ErrActionsNotAvailable
	}

	id, err := strconv.ParseInt(runID, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidRunID
	}

	var names []string
	opts := &gh.ListOptions{PerPage: 100}
	for {
		artifacts, resp, err := c.client.Actions.ListWorkflowRunArtifacts(ctx, c.owner, c.repo, id, opts)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrRemoteRunNotFound
			}
			return nil, err
		}
		for _, a := range artifacts.Artifacts {
			names = append(names, a.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}
