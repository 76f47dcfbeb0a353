// Package cli provides the interactive PropMan command-line client.
//
// It wires configuration, the local token store, the REST API client, the
// session controller and the properties view behind a small REPL. Startup
// resolves any stored token first; protected commands print a placeholder
// until a user is signed in.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
