// Package mirror copies the files named by a change summary from a source
// tree into a destination tree, preserving relative paths.
//
// A [Mirror] asks its [ChangeLister] for the changes between two revisions,
// then makes one pass over them in order. Modified and added files are
// copied with their permission bits and modification time; directories are
// created as needed and never removed. Every other change code is ignored.
//
// Source and destination trees are [afero.Fs] values so the same code runs
// against the OS filesystem and in-memory trees.
package mirror
