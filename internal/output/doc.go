// Package output formats mirror run reports for display or machine consumption.
//
// Three formats are supported:
//   - text    : human-readable terminal summary
//   - json    : full structured JSON report
//   - markdown: table suited to release notes or ticket comments
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*mirror.Report]. [WriteReport]
// handles destination selection.
package output
