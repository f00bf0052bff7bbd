package svnctx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dshills/svnmirror/internal/redact"
	"go.uber.org/zap"
)

// Change codes printed in the first column of `svn diff --summarize`.
const (
	CodeModified = 'M'
	CodeAdded    = 'A'
	CodeDeleted  = 'D'
	CodeNone     = ' '
)

// pathColumn is the offset at which the path starts in a summary line: one
// column for the item code, one for the property code.
const pathColumn = 2

// Format selects how the summary is requested and parsed.
type Format string

const (
	FormatText Format = "text"
	FormatXML  Format = "xml"
)

// Change is one entry of a summarized diff.
type Change struct {
	Code     byte
	PropCode byte
	Kind     string // "file" or "dir"; only known for XML summaries
	Path     string // slash-separated, relative to the working copy root
}

// Mirrored reports whether the change carries file content to copy.
func (c Change) Mirrored() bool {
	return c.Code == CodeModified || c.Code == CodeAdded
}

func (c Change) String() string {
	return fmt.Sprintf("%c %s", c.Code, c.Path)
}

// Client runs the svn binary to list changes.
type Client struct {
	Binary string
	Args   []string // global options placed before the subcommand
	Format Format
	Logger *zap.Logger
}

// New returns a Client. An empty binary defaults to "svn" on the PATH.
func New(binary string, args []string, format Format, logger *zap.Logger) *Client {
	if binary == "" {
		binary = "svn"
	}
	if format == "" {
		format = FormatText
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		Binary: binary,
		Args:   args,
		Format: format,
		Logger: logger,
	}
}

// ListChanges returns the changes between revisionA and revisionB inside
// root, in the order svn reports them.
func (c *Client) ListChanges(ctx context.Context, root, revisionA, revisionB string) ([]Change, error) {
	args := c.diffArgs(revisionA, revisionB)
	c.Logger.Debug("listing changes",
		zap.String("dir", root),
		zap.String("binary", c.Binary),
		zap.Strings("args", redact.Args(args)))

	switch c.Format {
	case FormatXML:
		// stderr must stay out of the document.
		out, err := c.run(ctx, root, false, args...)
		if err != nil {
			return nil, err
		}
		changes, err := ParseSummaryXML(out)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("parsed summary", zap.Int("changes", len(changes)))
		return changes, nil
	case FormatText:
		out, err := c.run(ctx, root, true, args...)
		if err != nil {
			return nil, err
		}
		changes := ParseSummary(string(out))
		c.Logger.Debug("parsed summary", zap.Int("changes", len(changes)))
		return changes, nil
	default:
		return nil, fmt.Errorf("unsupported summary format: %s", c.Format)
	}
}

func (c *Client) diffArgs(revisionA, revisionB string) []string {
	args := append([]string{}, c.Args...)
	args = append(args, "diff", "-r", revisionA+":"+revisionB, "--summarize")
	if c.Format == FormatXML {
		args = append(args, "--xml")
	}
	return args
}

func (c *Client) run(ctx context.Context, dir string, combined bool, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if combined {
		cmd.Stderr = &stdout
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		toolErr := &ToolError{
			Command:  c.Binary + " " + strings.Join(redact.Args(args), " "),
			ExitCode: -1,
			Output:   redact.Secrets(stdout.String() + stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		return nil, toolErr
	}
	return stdout.Bytes(), nil
}

// ParseSummary parses the column layout of `svn diff --summarize`. Blank
// lines and lines too short to hold a path are skipped.
func ParseSummary(out string) []Change {
	var changes []Change
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		change, ok := parseLine(line)
		if !ok {
			continue
		}
		changes = append(changes, change)
	}
	return changes
}

func parseLine(line string) (Change, bool) {
	if len(line) <= pathColumn {
		return Change{}, false
	}
	path := strings.TrimSpace(line[pathColumn:])
	if path == "" {
		return Change{}, false
	}
	return Change{
		Code:     line[0],
		PropCode: line[1],
		Path:     filepath.ToSlash(path),
	}, true
}

// ToolError reports an svn invocation that could not start or exited with
// a non-zero status.
type ToolError struct {
	Command  string
	ExitCode int // -1 when the process never ran to completion
	Output   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Output)
	switch {
	case e.ExitCode < 0:
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	case msg != "":
		return fmt.Sprintf("%s: exit status %d: %s", e.Command, e.ExitCode, msg)
	default:
		return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	}
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
