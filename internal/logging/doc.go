// Package logging builds the zap logger used for diagnostics. Progress lines
// meant for the user are not logged; they are written by the mirror itself.
package logging
