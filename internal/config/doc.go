// Package config loads and merges svnmirror configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags the user set explicitly
//  2. Environment variables (SVNMIRROR_SVN_DIR, SVNMIRROR_REVISION_1, etc.)
//  3. Config file (--config, $SVNMIRROR_CONFIG, or
//     $XDG_CONFIG_HOME/svnmirror/config.yaml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [Config.Validate] to check the
// required options before a run. [Save] and [SetField] back the
// `config init` and `config set` commands.
package config
