// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package version checks GitHub for a newer release.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/autobrr/streamrank/pkg/httphelpers"
)

const defaultAPIURL = "https://api.github.com"

type Release struct {
	ID          int64     `json:"id"`
	TagName     string    `json:"tag_name"`
	Name        *string   `json:"name"`
	Body        *string   `json:"body"`
	HTMLURL     string    `json:"html_url"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

type Asset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	ContentType        string `json:"content_type"`
	State              string `json:"state"`
	Size               int64  `json:"size"`
	DownloadCount      int64  `json:"download_count"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type Checker struct {
	Owner     string
	Repo      string
	UserAgent string

	apiURL     string
	httpClient *http.Client
}

func NewChecker(owner, repo, userAgent string) *Checker {
	return &Checker{
		Owner:      owner,
		Repo:       repo,
		UserAgent:  userAgent,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckNewVersion reports whether the latest release is newer than version.
// Development builds never report an update.
func (c *Checker) CheckNewVersion(ctx context.Context, version string) (bool, *Release, error) {
	if isDevelop(version) {
		return false, nil, nil
	}

	release, err := c.latestRelease(ctx)
	if err != nil {
		return false, nil, err
	}

	newer, _, err := c.compareVersions(version, release)
	if err != nil {
		return false, nil, err
	}
	return newer, release, nil
}

func (c *Checker) latestRelease(ctx context.Context) (*Release, error) {
	endpoint, err := url.JoinPath(c.apiURL, "repos", c.Owner, c.Repo, "releases", "latest")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer httphelpers.DrainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch latest release: status %d: %s", resp.StatusCode, httphelpers.ReadErrorBody(resp, 1024))
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode latest release: %w", err)
	}
	return &release, nil
}

// compareVersions returns whether release is newer than current. A stable
// build is never offered a prerelease.
func (c *Checker) compareVersions(current string, release *Release) (bool, string, error) {
	currentVersion, err := semver.NewVersion(current)
	if err != nil {
		return false, "", fmt.Errorf("invalid current version %q: %w", current, err)
	}

	releaseVersion, err := semver.NewVersion(release.TagName)
	if err != nil {
		return false, "", fmt.Errorf("invalid release version %q: %w", release.TagName, err)
	}

	if releaseVersion.Prerelease() != "" && currentVersion.Prerelease() == "" {
		return false, release.TagName, nil
	}

	return releaseVersion.GreaterThan(currentVersion), release.TagName, nil
}

func isDevelop(version string) bool {
	switch version {
	case "", "dev", "develop", "main", "latest":
		return true
	}
	return strings.HasPrefix(version, "pr-") ||
		strings.HasSuffix(version, "-dev") ||
		strings.HasSuffix(version, "-develop")
}
