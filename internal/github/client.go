package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"

	requestTimeout = 30 * time.Second
)

// StatusError reports a non-success HTTP status from the GitHub API.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github: GET %s returned status %d", e.URL, e.Status)
}

// IsRateLimited reports whether err is a rate-limit-indicating failure
// (HTTP 403). Callers use this to decide whether to back off and retry.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusForbidden
}

// Client is a minimal GitHub REST client covering repository search,
// recursive tree listing, and raw file content retrieval. All calls are
// synchronous and block until response or failure.
type Client struct {
	http    *http.Client
	token   string
	apiBase string
	rawBase string
}

// NewClient creates a client against github.com. The token is optional;
// when set it is sent as a bearer token for elevated rate limits.
func NewClient(token string) *Client {
	return NewClientWithBase(token, defaultAPIBase, defaultRawBase)
}

// NewClientWithBase creates a client against custom API and raw-content
// base URLs (GitHub Enterprise, or a test server).
func NewClientWithBase(token, apiBase, rawBase string) *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		token:   token,
		apiBase: apiBase,
		rawBase: rawBase,
	}
}

// Repo is the subset of the repository search response the pipeline
// consumes.
type Repo struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
	Stars    int    `json:"stargazers_count"`
	Language string `json:"language"`
}

type searchResponse struct {
	Items []Repo `json:"items"`
}

type treeItem struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type treeResponse struct {
	Tree []treeItem `json:"tree"`
}

// SearchRepos runs a repository search, sorted by stars descending.
func (c *Client) SearchRepos(ctx context.Context, query string, perPage, page int) ([]Repo, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))

	var resp searchResponse
	if err := c.getJSON(ctx, c.apiBase+"/search/repositories?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// tree fetches the full recursive tree of a repository at HEAD.
func (c *Client) tree(ctx context.Context, owner, repo string) ([]treeItem, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/git/trees/HEAD?recursive=1", c.apiBase, owner, repo)
	var resp treeResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Tree, nil
}

// RawContent downloads raw file content from a repository at HEAD.
func (c *Client) RawContent(ctx context.Context, owner, repo, path string) (string, error) {
	u := fmt.Sprintf("%s/%s/%s/HEAD/%s", c.rawBase, owner, repo, path)
	body, err := c.get(ctx, u)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	body, err := c.get(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("github: decoding %s: %w", u, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Status: resp.StatusCode, URL: u}
	}
	return io.ReadAll(resp.Body)
}
