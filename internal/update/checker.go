// Package update checks GitHub for a newer codexlink release. The check is
// advisory: failures are silent and a newer version only produces a hint.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	repoOwner = "chazuruo"
	repoName  = "codexlink"
)

// Release is the subset of the GitHub release payload we care about.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Draft   bool   `json:"draft"`
	Pre     bool   `json:"prerelease"`
}

// Checker fetches the latest published release.
type Checker struct {
	httpClient *http.Client
	baseURL    string
}

// NewChecker creates a Checker with a short timeout; update checks must
// never hold up a run.
func NewChecker() *Checker {
	return &Checker{
		httpClient: &http.Client{Timeout: 3 * time.Second},
		baseURL:    "https://api.github.com",
	}
}

// CheckLatest returns the newest non-draft, non-prerelease release.
func (c *Checker) CheckLatest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases", c.baseURL, repoOwner, repoName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "codexlink-update")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, body)
	}

	var releases []Release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, err
	}
	for _, r := range releases {
		if !r.Draft && !r.Pre {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("no published releases")
}

// IsNewer reports whether latest is a strictly newer dotted version than
// current. Non-numeric segments and dev builds compare as not newer.
func IsNewer(current, latest string) bool {
	cur := versionParts(current)
	lat := versionParts(latest)
	if len(cur) == 0 || len(lat) == 0 {
		return false
	}
	for i := 0; i < len(cur) || i < len(lat); i++ {
		c, l := 0, 0
		if i < len(cur) {
			c = cur[i]
		}
		if i < len(lat) {
			l = lat[i]
		}
		if l != c {
			return l > c
		}
	}
	return false
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" || v == "dev" {
		return nil
	}
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var parts []int
	for _, seg := range strings.Split(v, ".") {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nil
		}
		parts = append(parts, n)
	}
	return parts
}
