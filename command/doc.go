// Package command exposes go-command compatible command handlers that change
// dismissal state (dismissing a notice, restoring a dismissed notice).
// Commands are wired by the service layer and can be invoked by any transport.
package command
