// Package cli provides the interactive patrimoine command-line client.
//
// It wires configuration, local storage, API services, and an interactive REPL.
// Typical flow: resolve the lock state from the stored session, ask for the
// PIN when the app starts locked, start a background connectivity watcher,
// and execute user commands.
//
// Key features:
//   - Start-up session verification with an optional PIN / biometric lock
//   - Login / Register / Logout
//   - Security preferences (PIN lock, biometrics) synced with the server
//   - Local PIN management
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
