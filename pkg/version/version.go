// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package version checks GitHub for newer releases of the running binary.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/moviezone/moviezone/pkg/httphelpers"
)

// Release is the subset of the GitHub release payload we care about.
type Release struct {
	ID         int64   `json:"id"`
	TagName    string  `json:"tag_name"`
	Name       *string `json:"name,omitempty"`
	Body       *string `json:"body,omitempty"`
	Draft      bool    `json:"draft"`
	Prerelease bool    `json:"prerelease"`
	HTMLURL    string  `json:"html_url"`
	Assets     []Asset `json:"assets"`
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

	httpClient *http.Client
	latestURL  string
}

func NewChecker(owner, repo, userAgent string) *Checker {
	return &Checker{
		Owner:     owner,
		Repo:      repo,
		UserAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		latestURL: "https://api.github.com/repos/%s/%s/releases/latest",
	}
}

// CheckNewVersion reports whether a release newer than currentVersion is
// published. Development builds never report an update.
func (c *Checker) CheckNewVersion(ctx context.Context, currentVersion string) (bool, *Release, error) {
	if isDevelop(currentVersion) {
		return false, nil, nil
	}

	release, err := c.latestRelease(ctx)
	if err != nil {
		return false, nil, err
	}

	newer, rel, err := c.compareVersions(currentVersion, release)
	if err != nil {
		return false, nil, err
	}
	return newer, rel, nil
}

func (c *Checker) latestRelease(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf(c.latestURL, c.Owner, c.Repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httphelpers.DrainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup returned status %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

func (c *Checker) compareVersions(currentVersion string, release *Release) (bool, *Release, error) {
	current, err := semver.NewVersion(strings.TrimPrefix(currentVersion, "v"))
	if err != nil {
		return false, nil, fmt.Errorf("parse current version %q: %w", currentVersion, err)
	}

	latest, err := semver.NewVersion(strings.TrimPrefix(release.TagName, "v"))
	if err != nil {
		return false, nil, fmt.Errorf("parse release tag %q: %w", release.TagName, err)
	}

	// Do not offer prerelease tags to users on a stable build.
	if latest.Prerelease() != "" && current.Prerelease() == "" {
		return false, nil, nil
	}

	if latest.GreaterThan(current) {
		return true, release, nil
	}
	return false, nil, nil
}

func isDevelop(version string) bool {
	switch version {
	case "", "dev", "develop", "main", "latest":
		return true
	}
	if strings.HasPrefix(version, "pr-") {
		return true
	}
	return strings.HasSuffix(version, "-dev") || strings.HasSuffix(version, "-develop")
}
