package github

import (
	"context"
	"sort"
	"strings"

	"readmekit/internal/source"
)

// Path substrings excluded from every remote tree.
var remoteExcludes = []string{"node_modules", "__pycache__"}

// RemoteSource adapts a GitHub repository tree fetched at HEAD. It
// implements source.Source; file reads go through the raw content
// endpoint and block until response or failure.
type RemoteSource struct {
	client  *Client
	owner   string
	repo    string
	entries []source.TreeEntry
}

// NewRemoteSource fetches the recursive tree in a single API call and
// snapshots it. Entries with a dot-prefixed path segment are dropped, as
// are paths containing node_modules, __pycache__, or any of the
// caller-supplied extra substrings (the collection path passes
// ".egg-info"). A non-success tree fetch is returned as an error; callers
// treat it as a soft per-repository skip.
func NewRemoteSource(ctx context.Context, client *Client, owner, repo string, extraExcludes ...string) (*RemoteSource, error) {
	items, err := client.tree(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	var entries []source.TreeEntry
	for _, item := range items {
		var kind source.EntryKind
		switch item.Type {
		case "blob":
			kind = source.KindFile
		case "tree":
			kind = source.KindDir
		default:
			continue
		}
		if excludedPath(item.Path, extraExcludes) {
			continue
		}
		entries = append(entries, source.TreeEntry{Path: item.Path, Kind: kind})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return &RemoteSource{
		client:  client,
		owner:   owner,
		repo:    repo,
		entries: entries,
	}, nil
}

func excludedPath(path string, extra []string) bool {
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	for _, sub := range remoteExcludes {
		if strings.Contains(path, sub) {
			return true
		}
	}
	for _, sub := range extra {
		if strings.Contains(path, sub) {
			return true
		}
	}
	return false
}

func (s *RemoteSource) Name() string { return s.owner + "/" + s.repo }

func (s *RemoteSource) Entries() []source.TreeEntry { return s.entries }

func (s *RemoteSource) ReadFile(ctx context.Context, path string) (string, error) {
	return s.client.RawContent(ctx, s.owner, s.repo, path)
}
