package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/svnmirror/internal/mirror"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

var heading = color.New(color.Bold).SprintFunc()

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *mirror.Report) error {
	ew := &errWriter{w: w}

	title := "svnmirror"
	if report.DryRun {
		title += " (dry run)"
	}
	ew.println(heading(fmt.Sprintf("%s: r%s to r%s", title, report.RevisionA, report.RevisionB)))
	ew.printf("Source:      %s\n", report.Source)
	ew.printf("Destination: %s\n", report.Destination)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Changes: %d reported, %d copied (%s), %d skipped, %d directories created\n",
		report.Changes,
		len(report.Files),
		humanize.Bytes(uint64(report.Bytes)),
		len(report.Skipped),
		len(report.Directories),
	)
	ew.println(strings.Repeat("─", 60))

	if len(report.Files) == 0 && len(report.Skipped) == 0 {
		ew.println("\nNothing to mirror.")
		return ew.err
	}

	if len(report.Files) > 0 {
		ew.println("\nCopied")
		for _, f := range report.Files {
			ew.printf("  %-50s %10s\n", f.Path, humanize.Bytes(uint64(f.Bytes)))
		}
	}

	if len(report.Skipped) > 0 {
		ew.println("\nSkipped")
		for _, s := range report.Skipped {
			ew.printf("  [%s] %-46s %s\n", codeLabel(s.Code), s.Path, s.Reason)
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms\n", report.ElapsedMs)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

// codeLabel names blank codes, which svn uses for property-only changes.
func codeLabel(code string) string {
	if strings.TrimSpace(code) == "" {
		return "_"
	}
	return code
}
