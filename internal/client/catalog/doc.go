// Package catalog holds the view models behind the product listing and the
// side-by-side comparison: facet filtering with staged selections, sorting,
// pagination, product search, spec flattening, offer ranking and the text
// comparison report.
//
// Nothing here performs I/O. Products come in through NewListing or a
// Loader, and renderers read the state back out.
package catalog
