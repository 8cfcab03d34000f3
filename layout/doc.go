// Package layout implements the measurement-driven building blocks of the
// document engine: shrink-to-fit font sizing, greedy line wrapping, bounded
// section cursors and precomputed page-break plans.
//
// Nothing in this package draws. Every function takes a metrics.Provider
// and returns plain values, so pagination decisions can be made (and
// tested) before a single page exists.
package layout
