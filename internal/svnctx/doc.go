// Package svnctx lists the paths that changed between two revisions of a
// Subversion working copy.
//
// It shells out to the svn client with `diff -r A:B --summarize` and parses
// the summary into [Change] records, either from the plain column layout or,
// when [FormatXML] is selected, from the `--xml` rendition of the same
// summary. [Client] implements the change-lister capability consumed by the
// mirror package.
package svnctx
