package output

import (
	"io"
	"strings"

	"github.com/dshills/svnmirror/internal/mirror"
	"github.com/dustin/go-humanize"
)

// MarkdownWriter outputs a markdown summary of a run.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *mirror.Report) error {
	ew := &errWriter{w: w}

	ew.printf("## Changes r%s to r%s\n\n", report.RevisionA, report.RevisionB)
	if report.DryRun {
		ew.printf("_Dry run: nothing was written._\n\n")
	}

	ew.printf("| | Count |\n")
	ew.printf("|---|---|\n")
	ew.printf("| Reported | %d |\n", report.Changes)
	ew.printf("| Copied | %d (%s) |\n", len(report.Files), humanize.Bytes(uint64(report.Bytes)))
	ew.printf("| Skipped | %d |\n", len(report.Skipped))
	ew.printf("| Directories created | %d |\n\n", len(report.Directories))

	if len(report.Files) > 0 {
		ew.printf("<details>\n<summary>Copied files (%d)</summary>\n\n", len(report.Files))
		for _, f := range report.Files {
			ew.printf("- `%s` (%s)\n", mdEscape(f.Path), humanize.Bytes(uint64(f.Bytes)))
		}
		ew.printf("\n</details>\n\n")
	}

	if len(report.Skipped) > 0 {
		ew.printf("<details>\n<summary>Skipped (%d)</summary>\n\n", len(report.Skipped))
		for _, s := range report.Skipped {
			ew.printf("- `%s` `%s` %s\n", codeLabel(s.Code), mdEscape(s.Path), s.Reason)
		}
		ew.printf("\n</details>\n\n")
	}

	ew.printf("*Mirrored %s into %s in %dms*\n", report.Source, report.Destination, report.ElapsedMs)
	return ew.err
}

// mdEscape keeps backticks in a path from closing the code span.
func mdEscape(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
