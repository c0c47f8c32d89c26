// Package gitx shells out to git for the revision data the review
// panel needs: per-file stats, statuses, diff text, file contents, and
// branch references.
package gitx

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner executes a git command and returns its output.
// This abstraction allows mocking in tests.
type Runner func(workDir string, args ...string) (string, error)

// Provider exposes revision data for a single working directory.
type Provider struct {
	WorkDir string
	Runner  Runner // if nil, uses the real git subprocess
}

// defaultRunner runs git as a real subprocess.
func defaultRunner(workDir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	return string(out), err
}

func (p *Provider) run(ctx context.Context, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	runner := p.Runner
	if runner == nil {
		runner = defaultRunner
	}
	return runner(p.WorkDir, args...)
}

// Numstat returns raw "additions<TAB>deletions<TAB>path" lines for all
// files changed between base and the working state. Binary files carry
// "-" in both count fields.
func (p *Provider) Numstat(ctx context.Context, base string) (string, error) {
	return p.run(ctx, "diff", base, "--numstat")
}

// NameStatus returns raw "letter<TAB>path[<TAB>newPath]" lines over the
// same range as Numstat.
func (p *Provider) NameStatus(ctx context.Context, base string) (string, error) {
	return p.run(ctx, "diff", base, "--name-status")
}

// DiffText returns the unified diff of a single path between base and
// the working state. On provider failure it returns an empty string,
// never an error: a file whose diff cannot be fetched renders empty
// rather than poisoning the whole refresh.
func (p *Provider) DiffText(ctx context.Context, base, path string) string {
	out, err := p.run(ctx, "diff", base, "--", path)
	if err != nil {
		return ""
	}
	return out
}

// ShowFile returns the full content of path at ref. A path that does
// not exist at ref (freshly added files) yields an empty string, not an
// error.
func (p *Provider) ShowFile(ctx context.Context, ref, path string) (string, error) {
	out, err := p.run(ctx, "show", ref+":"+path)
	if err != nil {
		if isGitFailure(err) {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// Branches lists branch-like references usable as a base: local
// branches verbatim, then remote branches with the remote prefix
// stripped, de-duplicated in first-seen order, symbolic HEAD entries
// dropped.
func (p *Provider) Branches(ctx context.Context) ([]string, error) {
	local, err := p.run(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	// Remote listing failure is tolerable; local branches alone are a
	// usable base list.
	remote, err := p.run(ctx, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		remote = ""
	}

	seen := make(map[string]bool)
	var branches []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		branches = append(branches, name)
	}

	for _, line := range strings.Split(local, "\n") {
		add(strings.TrimSpace(line))
	}
	for _, line := range strings.Split(remote, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasSuffix(name, "/HEAD") {
			continue
		}
		// "origin/feature/login" displays as "feature/login"
		if i := strings.Index(name, "/"); i != -1 {
			name = name[i+1:]
		}
		add(name)
	}
	return branches, nil
}

// CurrentBranch returns the checked-out branch name.
func (p *Provider) CurrentBranch(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsRepo reports whether the working directory is inside a git
// repository. git signals "not a repository" with exit code 128.
func (p *Provider) IsRepo(ctx context.Context) bool {
	_, err := p.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// isGitFailure reports whether err is git exiting nonzero (as opposed
// to git being missing or the context being cancelled).
func isGitFailure(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
