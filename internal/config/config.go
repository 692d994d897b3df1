// Package config defines flat value types for the solver's settings,
// mirroring the engine package's SearchLimits. No command uses them:
// cmd/bridge-solver and cmd/solver-diag keep their parsed flags in
// package-level variables.
package config

import "time"

// SolveLimits constrains one deal's solve, the bridge analogue of
// engine.SearchLimits.
type SolveLimits struct {
	// XrayLimit is the xray trace limit for diagnostics (0 = disabled).
	XrayLimit int
	// NoPruning disables fast/slow-trick pruning entirely.
	NoPruning bool
	// NoTranspositionTable disables the pattern cache.
	NoTranspositionTable bool
	// NoRankSkip disables rank-equivalence move suppression.
	NoRankSkip bool
	// ShowPerf prints node-count and timing diagnostics after each solve.
	ShowPerf bool
	// Timeout bounds one deal's wall-clock solve time (0 = no limit).
	Timeout time.Duration
}

// DefaultSolveLimits is the out-of-the-box configuration: every
// optimization enabled, no diagnostics.
var DefaultSolveLimits = SolveLimits{}

// CacheSizes sets the bit-width of the two shared caches. Both caches are
// sized in bits (1<<bits slots) rather than bytes, matching the teacher's
// transposition table convention of power-of-two hash table sizing.
type CacheSizes struct {
	PatternCacheBits uint
	CutoffCacheBits  uint
}

// DefaultCacheSizes mirrors the teacher's 64MB default hash table, scaled
// down to this domain's much smaller working set.
var DefaultCacheSizes = CacheSizes{
	PatternCacheBits: 20,
	CutoffCacheBits:  18,
}

// BatchConfig configures cmd/bridge-solver's multi-deal, multi-denomination
// run.
type BatchConfig struct {
	InputPath  string
	OutputPath string
	Verbose    bool
	Quiet      bool
	CachePath  string
	Workers    int
}
