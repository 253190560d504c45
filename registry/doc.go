// Package registry holds the in-memory collection of admin notices registered
// by the host application. The registry is constructed explicitly and owned by
// the composition root; tests build a fresh instance instead of tearing down a
// shared one.
package registry
