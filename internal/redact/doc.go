// Package redact removes credentials from svn command lines and output
// before they are logged or returned in an error.
//
// Flag values are masked by position (--password secret, --password=secret).
// Free text is scanned for repository URLs carrying a password and for
// password assignments passed as configuration options.
package redact
