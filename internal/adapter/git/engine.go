package git

import (
	"fmt"
	"regexp"
	"strings"

	goGit "github.com/go-git/go-git/v5"
)

// Engine resolves repository metadata backed by go-git.
type Engine struct {
	repoDir string
}

// NewEngine constructs a Git engine for the provided repository directory.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// ProjectPath returns the GitLab project path (group/project, subgroups
// included) parsed from the origin remote URL.
func (e *Engine) ProjectPath() (string, error) {
	repo, err := goGit.PlainOpenWithOptions(e.repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("resolve origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}

	return ParseProjectPath(urls[0])
}

var (
	schemeRemoteRe = regexp.MustCompile(`^(?:https?|ssh|git)://[^/]+/(.+)$`)
	scpRemoteRe    = regexp.MustCompile(`^[^@]+@[^:]+:(.+)$`)
)

// ParseProjectPath extracts the project path from a git remote URL.
// Handles https://host/group/project[.git], ssh://git@host/group/project and
// git@host:group/project forms; nested groups are preserved.
func ParseProjectPath(url string) (string, error) {
	url = strings.TrimSpace(url)
	url = strings.TrimSuffix(url, ".git")
	url = strings.TrimSuffix(url, "/")

	var path string
	if m := schemeRemoteRe.FindStringSubmatch(url); len(m) == 2 {
		path = m[1]
	} else if m := scpRemoteRe.FindStringSubmatch(url); len(m) == 2 {
		path = m[1]
	}

	if path == "" || !strings.Contains(path, "/") {
		return "", fmt.Errorf("cannot parse project path from remote URL: %s", url)
	}
	return path, nil
}
