// Package activity provides types.ActivitySink implementations for notice
// dismissals. Every sink masks sensitive data (nonces, tokens, secrets)
// with go-masker before a record leaves the process.
package activity
