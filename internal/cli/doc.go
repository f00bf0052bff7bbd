// Package cli wires together the Cobra command tree for the svnmirror binary.
//
// The root command performs one mirror run: it reads configuration from
// flags, environment and the config file, lists the changes between two
// revisions through the svn client, copies the changed files and returns a
// deterministic exit code. The config and version subcommands manage the
// config file and print build information.
package cli
