// Package models defines the client-side records exchanged with the
// CompareHub API and kept in local storage.
//
// Catalog payloads are produced by several scrapers and are loosely shaped:
// ids may be strings or numbers, names live under "model" or "title", prices
// are sometimes missing or non-numeric, and specs are an arbitrarily nested
// tree. The decoders here absorb those variations so the rest of the client
// works with one shape.
package models
