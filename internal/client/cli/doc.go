// Package cli provides the interactive tasklist command-line client.
//
// It wires configuration, the session store, the API services and the auth
// guard behind a small REPL. Every command opens a page; a page declares its
// audience, waits for the guard and only then renders. Redirects issued by
// the guard or by a page are followed by App.Open, a few hops at most.
//
// Pages:
//   - home, login, register (guests only)
//   - tasks, view, toggle, share, create, edit, logout (signed-in only)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, Router and runREPL for details.
package cli
