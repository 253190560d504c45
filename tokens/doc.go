// Package tokens issues the anti-forgery nonces carried by dismiss links.
// Nonces are short lived HS256 JWTs bound to a single action string.
package tokens
