package mirror

import "fmt"

// MissingOriginError reports a changed path that does not exist in the
// source tree, meaning the summary and the working copy disagree (for
// example a stale checkout).
type MissingOriginError struct {
	Path   string
	Origin string
}

func (e *MissingOriginError) Error() string {
	return fmt.Sprintf("unable to access origin file %s for %q, check svn diff output", e.Origin, e.Path)
}

// UnsafePathError reports a changed path that is absolute or resolves
// outside the source root.
type UnsafePathError struct {
	Path string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("changed path %q escapes the source root", e.Path)
}
