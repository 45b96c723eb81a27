// Package cli provides the interactive CompareHub command-line client.
//
// It wires configuration, local storage, the API client, the challenge
// provider and the services, then runs a REPL next to a background
// connectivity watcher. Typical flow: browse a category, narrow it with
// facets, open a comparison of two phones and export it; sign in or
// register when needed.
//
// Key features:
//   - Register / Login / Verify email / Forgot and reset password
//   - Catalog listing with brand, OS and price filters, sorting and paging
//   - Price alerts kept in local storage
//   - Two-slot comparison with text report, export and share
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
