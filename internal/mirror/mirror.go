package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/svnmirror/internal/svnctx"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ChangeLister lists the changes between two revisions of a working copy.
type ChangeLister interface {
	ListChanges(ctx context.Context, root, revisionA, revisionB string) ([]svnctx.Change, error)
}

// Request is the immutable input of one run.
type Request struct {
	SourceRoot      string
	DestinationRoot string
	RevisionA       string
	RevisionB       string
	Verbose         bool
	DryRun          bool
	Include         []string
	Exclude         []string
}

// Mirror copies changed files between two trees.
type Mirror struct {
	lister ChangeLister
	source afero.Fs
	dest   afero.Fs
	out    io.Writer
	logger *zap.Logger
}

// Option configures a Mirror.
type Option func(*Mirror)

// SourceFs sets the filesystem the source root is resolved against.
func SourceFs(fs afero.Fs) Option {
	return func(m *Mirror) { m.source = fs }
}

// DestinationFs sets the filesystem the destination root is resolved against.
func DestinationFs(fs afero.Fs) Option {
	return func(m *Mirror) { m.dest = fs }
}

// Output sets where verbose progress lines are written.
func Output(w io.Writer) Option {
	return func(m *Mirror) { m.out = w }
}

// Logger sets the diagnostic logger.
func Logger(l *zap.Logger) Option {
	return func(m *Mirror) { m.logger = l }
}

// New returns a Mirror reading changes from lister. Without options both trees
// live on the OS filesystem and progress goes to stdout.
func New(lister ChangeLister, opts ...Option) *Mirror {
	m := &Mirror{
		lister: lister,
		source: afero.NewOsFs(),
		dest:   afero.NewOsFs(),
		out:    os.Stdout,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// run holds the state of a single pass.
type run struct {
	req     Request
	report  *Report
	planned map[string]bool // directories announced during a dry run
}

// Run lists the changes for req and mirrors them in order. It stops at the
// first failure; work already done stays in place. The returned report is
// never nil and describes everything completed before any failure.
func (m *Mirror) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	r := &run{
		req:     req,
		report:  newReport(req),
		planned: make(map[string]bool),
	}
	defer func() { r.report.ElapsedMs = time.Since(start).Milliseconds() }()

	changes, err := m.lister.ListChanges(ctx, req.SourceRoot, req.RevisionA, req.RevisionB)
	if err != nil {
		return r.report, fmt.Errorf("listing changes: %w", err)
	}
	r.report.Changes = len(changes)
	m.logger.Debug("mirroring changes",
		zap.Int("changes", len(changes)),
		zap.String("source", req.SourceRoot),
		zap.String("destination", req.DestinationRoot),
		zap.Bool("dryRun", req.DryRun))

	for _, c := range changes {
		if err := m.apply(r, c); err != nil {
			return r.report, err
		}
	}
	return r.report, nil
}

func (m *Mirror) apply(r *run, c svnctx.Change) error {
	if !c.Mirrored() {
		m.logger.Debug("ignoring change", zap.String("code", string(c.Code)), zap.String("path", c.Path))
		r.report.skip(c, SkipUnsupportedCode)
		return nil
	}

	rel, err := cleanRelative(c.Path)
	if err != nil {
		return err
	}
	if !selected(rel, r.req.Include, r.req.Exclude) {
		m.logger.Debug("filtered change", zap.String("path", rel))
		r.report.skip(c, SkipFiltered)
		return nil
	}

	origin := filepath.Join(r.req.SourceRoot, filepath.FromSlash(rel))
	destination := filepath.Join(r.req.DestinationRoot, filepath.FromSlash(rel))

	info, err := m.source.Stat(origin)
	if err != nil {
		if missing(err) {
			return &MissingOriginError{Path: c.Path, Origin: origin}
		}
		return fmt.Errorf("inspecting %s: %w", origin, err)
	}

	if err := m.ensureDir(r, filepath.Dir(destination)); err != nil {
		return err
	}

	// Added directories are reproduced even when empty.
	if info.IsDir() {
		return m.ensureDir(r, destination)
	}

	if r.req.Verbose {
		fmt.Fprintf(m.out, "Copying %s to %s\n", origin, destination)
	}
	if r.req.DryRun {
		r.report.addFile(rel, info.Size())
		return nil
	}
	n, err := copyFile(m.source, m.dest, origin, destination, info)
	if err != nil {
		return err
	}
	m.logger.Debug("copied file", zap.String("path", rel), zap.Int64("bytes", n))
	r.report.addFile(rel, n)
	return nil
}

// missing reports whether a Stat failure means the path does not exist. A
// path running through a regular file fails with ENOTDIR.
func missing(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// ensureDir creates dir and any missing ancestors. It is a no-op when dir
// already exists, so records may arrive in any order.
func (m *Mirror) ensureDir(r *run, dir string) error {
	if r.planned[dir] {
		return nil
	}
	exists, err := afero.DirExists(m.dest, dir)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", dir, err)
	}
	if exists {
		return nil
	}

	if r.req.Verbose {
		fmt.Fprintf(m.out, "Creating directory %s\n", dir)
	}
	r.report.Directories = append(r.report.Directories, dir)
	if r.req.DryRun {
		// MkdirAll would create every ancestor as well.
		for d := dir; !r.planned[d]; d = filepath.Dir(d) {
			r.planned[d] = true
		}
		return nil
	}
	if err := m.dest.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// copyFile copies content, permission bits and modification time, replacing
// whatever is at destination.
func copyFile(src, dst afero.Fs, origin, destination string, info os.FileInfo) (int64, error) {
	in, err := src.Open(origin)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", origin, err)
	}
	defer in.Close()

	out, err := dst.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", destination, err)
	}
	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("copying %s to %s: %w", origin, destination, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("closing %s: %w", destination, err)
	}

	if err := dst.Chmod(destination, info.Mode().Perm()); err != nil {
		return n, fmt.Errorf("setting mode on %s: %w", destination, err)
	}
	if err := dst.Chtimes(destination, info.ModTime(), info.ModTime()); err != nil {
		return n, fmt.Errorf("setting times on %s: %w", destination, err)
	}
	return n, nil
}

// cleanRelative normalizes a reported path and rejects anything that would
// resolve outside the root it is joined to.
func cleanRelative(p string) (string, error) {
	slashed := filepath.ToSlash(p)
	if path.IsAbs(slashed) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", &UnsafePathError{Path: p}
	}
	clean := path.Clean(slashed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", &UnsafePathError{Path: p}
	}
	return clean, nil
}
