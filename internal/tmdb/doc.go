// Package tmdb wraps the TMDB REST API calls used to resolve a title
// reference to canonical metadata and to discover which storefront regions
// carry the title.
package tmdb
