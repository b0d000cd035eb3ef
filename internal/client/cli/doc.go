// Package cli provides the interactive gatekeeper command-line client.
//
// It wires configuration and the gRPC AuthService client into a small REPL:
// register, login and logout, account activation, profile lookup, account
// deletion, and the admin-only archive command. A background watcher pings
// the server and flips the prompt between online and offline.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
