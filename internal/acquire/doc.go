// Package acquire runs the acquisition engine for one title: fan out fetches
// across every storefront region, convert and normalize what comes back,
// collapse duplicates, and write the surviving set to disk with a run report.
package acquire
