// Svnmirror copies the files changed between two Subversion revisions of a
// working copy into a separate directory, preserving their relative paths.
//
// It asks the svn client for a summarized diff, copies every modified or
// added path and returns deterministic exit codes suitable for scripts.
//
// Usage:
//
//	svnmirror -s ./trunk -o ./patch -r 100           # changes from r100 to HEAD
//	svnmirror -s ./trunk -o ./patch -r 100 -t 105    # changes from r100 to r105
//	svnmirror -s ./trunk -o ./patch -r 100 -q        # no progress lines
//	svnmirror -s ./trunk -o ./patch -r 100 -n --report text  # preview only
//	svnmirror config init                            # write a default config file
package main
