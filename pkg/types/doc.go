// Package types defines the Board model (items, tiers, pool), its invariants,
// the Store persistence port, configuration, and the standard error values
// shared by every tierboard package.
package types
