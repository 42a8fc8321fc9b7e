// Package deploy resolves the hosting repository identifier ("owner/name")
// that the site is published from.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultEnvVar is the environment variable holding the repository identifier.
const DefaultEnvVar = "GITHUB_REPOSITORY"

// DefaultBranch is the branch raw file links point at.
const DefaultBranch = "main"

// ErrNoRepository indicates no source produced a repository identifier.
var ErrNoRepository = errors.New("repository identifier not available")

// Source names where a repository identifier came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceEnv      Source = "env"
	SourceGit      Source = "git"
)

// Resolver finds the repository identifier, trying in order an explicit
// value, an environment variable, and the origin remote of the git
// repository containing Dir.
type Resolver struct {
	Explicit string
	EnvVar   string
	Dir      string

	getenv func(string) string
}

// NewResolver creates a Resolver. An empty envVar means DefaultEnvVar; an
// empty dir disables the git lookup.
func NewResolver(explicit, envVar, dir string) *Resolver {
	if envVar == "" {
		envVar = DefaultEnvVar
	}
	return &Resolver{Explicit: explicit, EnvVar: envVar, Dir: dir, getenv: os.Getenv}
}

// Repository returns the repository identifier.
func (r *Resolver) Repository(ctx context.Context) (string, error) {
	repo, _, err := r.Lookup(ctx)
	return repo, err
}

// Lookup returns the repository identifier together with where it came from.
func (r *Resolver) Lookup(ctx context.Context) (string, Source, error) {
	if v := strings.TrimSpace(r.Explicit); v != "" {
		return v, SourceExplicit, nil
	}

	getenv := r.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(r.EnvVar)); v != "" {
		return v, SourceEnv, nil
	}

	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	if r.Dir != "" {
		if repo, ok := originRepository(r.Dir); ok {
			return repo, SourceGit, nil
		}
	}
	return "", "", fmt.Errorf("%w: set --repository or %s", ErrNoRepository, r.EnvVar)
}

func originRepository(dir string) (string, bool) {
	repository, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	remote, err := repository.Remote("origin")
	if err != nil {
		return "", false
	}
	for _, u := range remote.Config().URLs {
		if repo, ok := ParseRemoteURL(u); ok {
			return repo, true
		}
	}
	return "", false
}

// ParseRemoteURL extracts "owner/name" from an https, ssh or scp-style git URL.
func ParseRemoteURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	var path string
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return "", false
		}
		path = u.Path
	} else {
		// scp-like: git@github.com:owner/name.git
		at := strings.Index(raw, "@")
		colon := strings.Index(raw, ":")
		if colon < 0 || colon < at {
			return "", false
		}
		path = raw[colon+1:]
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", false
	}
	owner, name := parts[len(parts)-2], parts[len(parts)-1]
	if owner == "" || name == "" {
		return "", false
	}
	return owner + "/" + name, true
}

// RawBaseURL is the base URL for raw file links of repo at branch.
func RawBaseURL(repo, branch string) string {
	if branch == "" {
		branch = DefaultBranch
	}
	return "https://raw.githubusercontent.com/" + strings.Trim(repo, "/") + "/" + branch
}
