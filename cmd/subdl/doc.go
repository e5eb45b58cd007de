// Command subdl fetches every subtitle variant the Apple TV storefronts
// serve for a purchasable title, deduplicates near-identical tracks, and
// writes one SRT per surviving cluster.
package main
