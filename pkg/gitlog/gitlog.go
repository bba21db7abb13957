// Package gitlog reads a repository's commit log into [commit.Commit] values.
//
// The log is produced by the git CLI with a fixed one-line-per-commit format:
//
//	hash|parents|unix-timestamp|subject|decorations
//
// Parents are space separated and may be empty. The subject may itself contain
// '|' characters; the last field is always the decoration list. The branch
// label of a commit is the first decoration with "HEAD -> " and "tag: "
// prefixes removed.
package gitlog

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/gitxmas/pkg/commit"
	"github.com/matzehuels/gitxmas/pkg/errors"
)

// Format is the --pretty format whose output [Parse] understands.
const Format = "%H|%P|%ct|%s|%D"

// DefaultMaxCommits caps the log when Options.MaxCommits is zero.
const DefaultMaxCommits = 100

// Options controls which commits are read.
type Options struct {
	// MaxCommits limits the log to the newest N commits. Zero means
	// DefaultMaxCommits.
	MaxCommits int
	// Revs restricts the log to the given revisions. Empty means --all.
	Revs []string
}

// Runner executes git in dir and returns its standard output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// CLI runs the git binary found on PATH, or Binary when set.
type CLI struct {
	Binary string
}

// Run implements [Runner].
func (c CLI) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	bin := c.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

// Reader loads commit logs through a Runner.
type Reader struct {
	Git Runner
}

// NewReader returns a Reader backed by the git CLI.
func NewReader() *Reader { return &Reader{Git: CLI{}} }

// Load reads the commit log of the repository at repo, oldest first.
//
// Returns INVALID_PATH for an unusable path, NOT_A_REPOSITORY when repo has no
// .git entry, GIT_FAILED when git exits with an error, and INVALID_FORMAT when
// the output cannot be parsed.
func (r *Reader) Load(ctx context.Context, repo string, opts Options) ([]commit.Commit, error) {
	if _, err := GitDir(repo); err != nil {
		return nil, err
	}

	out, err := r.Git.Run(ctx, repo, Args(opts)...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeGitFailed, err, "reading log of %s", repo)
	}
	return Parse(bytes.NewReader(out))
}

// Load reads the commit log of repo with the git CLI.
func Load(ctx context.Context, repo string, opts Options) ([]commit.Commit, error) {
	return NewReader().Load(ctx, repo, opts)
}

// Fingerprint returns the output of "git show-ref --head", which changes
// whenever a ref moves. A repository without refs yields an empty
// fingerprint and no error.
func (r *Reader) Fingerprint(ctx context.Context, repo string) (string, error) {
	if _, err := GitDir(repo); err != nil {
		return "", err
	}
	out, err := r.Git.Run(ctx, repo, "show-ref", "--head")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// show-ref exits 1 when there is nothing to list.
		var exit *exec.ExitError
		if stderrors.As(err, &exit) && exit.ExitCode() == 1 {
			return "", nil
		}
		return "", errors.Wrap(errors.ErrCodeGitFailed, err, "listing refs of %s", repo)
	}
	return string(out), nil
}

// Args returns the git arguments Load runs for opts.
func Args(opts Options) []string {
	n := opts.MaxCommits
	if n <= 0 {
		n = DefaultMaxCommits
	}
	args := []string{"log"}
	if len(opts.Revs) == 0 {
		args = append(args, "--all")
	}
	args = append(args, "--reverse", "-n", strconv.Itoa(n), "--pretty=format:"+Format)
	if len(opts.Revs) > 0 {
		args = append(args, opts.Revs...)
		args = append(args, "--")
	}
	return args
}

// GitDir returns the path of the .git entry of repo. Worktrees and submodules,
// where .git is a file, are accepted.
func GitDir(repo string) (string, error) {
	if err := errors.ValidateRepoPath(repo); err != nil {
		return "", err
	}
	dir := filepath.Join(repo, ".git")
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeNotARepository, "%s is not a git repository (.git not found)", repo)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "cannot access %s", repo)
	}
	return dir, nil
}

// Parse reads log lines in [Format] until EOF. Blank lines are skipped.
// The first malformed line aborts parsing with an INVALID_FORMAT error that
// names its line number.
func Parse(r io.Reader) ([]commit.Commit, error) {
	var commits []commit.Commit
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		c, err := ParseLine(line)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", lineNo)
		}
		commits = append(commits, c)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "reading log")
	}
	return commits, nil
}

// ParseLine parses a single log line.
func ParseLine(line string) (commit.Commit, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return commit.Commit{}, fmt.Errorf("expected at least 3 fields, got %d", len(parts))
	}

	hash := strings.TrimSpace(parts[0])
	if hash == "" {
		return commit.Commit{}, fmt.Errorf("empty hash")
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return commit.Commit{}, fmt.Errorf("invalid timestamp %q", parts[2])
	}

	c := commit.Commit{
		Hash:      hash,
		Parents:   strings.Fields(parts[1]),
		Timestamp: ts,
	}
	switch len(parts) {
	case 3:
	case 4:
		c.Message = parts[3]
	default:
		c.Message = strings.Join(parts[3:len(parts)-1], "|")
		c.Branch = BranchLabel(parts[len(parts)-1])
	}
	return c, nil
}

// BranchLabel extracts the branch label from a %D decoration list such as
// "HEAD -> main, origin/main, tag: v1.0".
func BranchLabel(decoration string) string {
	first, _, _ := strings.Cut(decoration, ",")
	first = strings.TrimSpace(first)
	first = strings.TrimPrefix(first, "HEAD -> ")
	first = strings.TrimPrefix(first, "tag: ")
	return strings.TrimSpace(first)
}
