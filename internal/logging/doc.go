// Package logging builds the slog loggers used across subdl.
//
// Two output formats are supported: a console handler that prints
// timestamped, component-prefixed lines with key=value attributes, and a JSON
// handler for machine consumption. The "auto" format picks console when
// stderr is a terminal and JSON otherwise.
package logging
