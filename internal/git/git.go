// Package git shells out to git for the two things the engine needs
// from version control: discovering changed files and best-effort
// commits of the artifact trail.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Client defines the git operations the engine consumes. All methods
// take a path parameter since the change under review and the artifact
// directory live in different repos.
type Client interface {
	RepoRoot(path string) (string, error)
	ChangedFiles(path, baseRef string) ([]string, error)
	CommitAll(path, message string) error
}

// RealClient implements Client using real git commands.
type RealClient struct{}

// NewClient returns a new RealClient.
func NewClient() *RealClient {
	return &RealClient{}
}

func gitCmd(path string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", path}, args...)
	out, err := exec.Command("git", fullArgs...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *RealClient) RepoRoot(path string) (string, error) {
	return gitCmd(path, "rev-parse", "--show-toplevel")
}

// ChangedFiles lists paths changed relative to baseRef, including
// uncommitted changes. An empty baseRef diffs against HEAD.
func (c *RealClient) ChangedFiles(path, baseRef string) ([]string, error) {
	ref := baseRef
	if ref == "" {
		ref = "HEAD"
	}
	out, err := gitCmd(path, "diff", "--name-only", ref)
	if err != nil {
		return nil, err
	}
	return SplitLines(out), nil
}

// CommitAll stages everything under path and commits. Callers treat
// failure as non-fatal; a clean or absent repo must not fail a run.
func (c *RealClient) CommitAll(path, message string) error {
	if _, err := gitCmd(path, "add", "-A"); err != nil {
		return err
	}
	_, err := gitCmd(path, "commit", "-m", message)
	return err
}

// SplitLines splits command output into non-empty trimmed lines.
func SplitLines(out string) []string {
	if out == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
