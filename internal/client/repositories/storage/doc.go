// Package storage is the client's key/value store. It plays the role browser
// storage plays for the web client: the local scope survives restarts, the
// session scope is wiped when the REPL exits cleanly.
package storage
