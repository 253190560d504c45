// Package query exposes go-command compatible read handlers over the
// persisted dismissal sets.
package query
