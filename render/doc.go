// Package render turns registered notices into admin markup. Each notice is
// rendered into a buffer and only copied to the page once it succeeds, so a
// failing notice leaves no partial output behind.
package render
