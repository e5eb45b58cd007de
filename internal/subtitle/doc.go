// Package subtitle implements the format and content layer of the acquisition
// pipeline: WebVTT parsing, SRT rendering, language tag normalization, and the
// two-stage (exact hash, fuzzy similarity) deduplication clustering that
// collapses near-identical tracks fetched from different storefronts.
//
// Everything in this package is pure: no I/O, no goroutines. The acquire
// package owns orchestration and feeds fully collected candidate sets in.
package subtitle
