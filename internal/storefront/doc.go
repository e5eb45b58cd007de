// Package storefront models the platform's regional storefronts: the
// territory-code to storefront-id mapping and the enumeration step that
// decides which regions a run will fetch from.
package storefront
