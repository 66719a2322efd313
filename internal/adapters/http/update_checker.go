// Package http checks the public release feed for a newer plugin build.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultReleaseURL is the latest-release endpoint of the plugin repository.
	DefaultReleaseURL = "https://api.github.com/repos/anoyetta/ACT.SpecialSpellTimer/releases/latest"

	// DefaultTimeout bounds one release query.
	DefaultTimeout = 10 * time.Second
)

// Client abstracts HTTP operations for dependency injection.
// The standard *http.Client satisfies this interface.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// release is the subset of the release document the checker reads.
type release struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
}

// UpdateChecker implements host.UpdateChecker against a release feed.
type UpdateChecker struct {
	client  Client
	url     string
	current string
	timeout time.Duration
}

// NewUpdateChecker creates a checker comparing the feed's latest tag with current.
// A nil client uses http.DefaultClient.
func NewUpdateChecker(client Client, url, current string) *UpdateChecker {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultReleaseURL
	}
	return &UpdateChecker{
		client:  client,
		url:     url,
		current: current,
		timeout: DefaultTimeout,
	}
}

// CheckForUpdate returns a notice when the feed advertises a newer version,
// and "" when the running version is current.
func (c *UpdateChecker) CheckForUpdate() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "ACT.SpecialSpellTimer/"+c.current)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", fmt.Errorf("decode release: %w", err)
	}
	if rel.Prerelease || rel.TagName == "" {
		return "", nil
	}
	if !newer(rel.TagName, c.current) {
		return "", nil
	}
	return fmt.Sprintf("SpecialSpellTimer %s is available (installed %s). %s",
		rel.TagName, c.current, rel.HTMLURL), nil
}

// newer reports whether tag is a higher major.minor.patch[.build] than current.
// An unparsable current version is treated as older than any tag.
func newer(tag, current string) bool {
	t := parseVersion(tag)
	c := parseVersion(current)
	for i := range t {
		if t[i] != c[i] {
			return t[i] > c[i]
		}
	}
	return false
}

func parseVersion(v string) [4]int {
	var out [4]int
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	for i, part := range strings.SplitN(v, ".", 4) {
		_, _ = fmt.Sscanf(part, "%d", &out[i])
	}
	return out
}
