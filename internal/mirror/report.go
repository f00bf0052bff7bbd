package mirror

import "github.com/dshills/svnmirror/internal/svnctx"

// SkipReason explains why a change was not mirrored.
type SkipReason string

const (
	SkipUnsupportedCode SkipReason = "unsupported-code"
	SkipFiltered        SkipReason = "filtered"
)

// FileEntry is one copied file.
type FileEntry struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// SkippedEntry is one change that was left alone.
type SkippedEntry struct {
	Code   string     `json:"code"`
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
}

// Report summarizes a single run.
type Report struct {
	Source      string         `json:"source"`
	Destination string         `json:"destination"`
	RevisionA   string         `json:"revisionA"`
	RevisionB   string         `json:"revisionB"`
	DryRun      bool           `json:"dryRun,omitempty"`
	Changes     int            `json:"changes"`
	Files       []FileEntry    `json:"files"`
	Directories []string       `json:"directories"`
	Skipped     []SkippedEntry `json:"skipped"`
	Bytes       int64          `json:"bytes"`
	ElapsedMs   int64          `json:"elapsedMs"`
}

func newReport(req Request) *Report {
	return &Report{
		Source:      req.SourceRoot,
		Destination: req.DestinationRoot,
		RevisionA:   req.RevisionA,
		RevisionB:   req.RevisionB,
		DryRun:      req.DryRun,
		Files:       []FileEntry{},
		Directories: []string{},
		Skipped:     []SkippedEntry{},
	}
}

func (r *Report) addFile(path string, n int64) {
	r.Files = append(r.Files, FileEntry{Path: path, Bytes: n})
	r.Bytes += n
}

func (r *Report) skip(c svnctx.Change, reason SkipReason) {
	r.Skipped = append(r.Skipped, SkippedEntry{
		Code:   string(c.Code),
		Path:   c.Path,
		Reason: reason,
	})
}
