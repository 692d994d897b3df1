// Package solve is the alpha-beta / MTD(f) search engine: the cutoff
// cache, move ordering, fast/slow-trick pruning, the three-layer
// recursive search, and the public Solver façade.
package solve

import "sync/atomic"

// Process-wide diagnostic state. These mirror the spec's atomic
// counters and toggles exactly: relaxed-ordering reads/writes on hot
// paths, observability only — correctness never depends on their
// values (spec.md §5, §9 "Global state").
var (
	nodeCount atomic.Int64
	xrayCount atomic.Int64
	xrayLimit atomic.Int64
	noPruning atomic.Bool
	noTT      atomic.Bool
	noRankSkip atomic.Bool
	showPerf  atomic.Bool
)

// NodeCount returns the number of EvaluatePlayableCards card-loop
// iterations performed since the process started (or since ResetNodeCount).
func NodeCount() int64 { return nodeCount.Load() }

// ResetNodeCount zeroes the node counter; callers typically do this
// once per solve for per-deal statistics.
func ResetNodeCount() { nodeCount.Store(0) }

func bumpNodeCount() { nodeCount.Add(1) }

// SetXrayLimit stores the xray limit (limit > 0 enables, limit == 0
// disables) and resets the xray counter. The search never consults
// them, so no xray trace output is produced.
func SetXrayLimit(limit int) {
	xrayLimit.Store(int64(limit))
	xrayCount.Store(0)
}

func xrayActive() bool {
	limit := xrayLimit.Load()
	if limit <= 0 {
		return false
	}
	return xrayCount.Add(1) <= limit
}

// SetNoPruning, SetNoTT, SetNoRankSkip, SetShowPerf toggle the debug
// switches the CLI flags -P -T -R -V expose.
func SetNoPruning(v bool)  { noPruning.Store(v) }
func SetNoTT(v bool)       { noTT.Store(v) }
func SetNoRankSkip(v bool) { noRankSkip.Store(v) }
func SetShowPerf(v bool)   { showPerf.Store(v) }

func pruningEnabled() bool  { return !noPruning.Load() }
func ttEnabled() bool       { return !noTT.Load() }
func rankSkipEnabled() bool { return !noRankSkip.Load() }

// ShowPerf reports whether -V perf logging is enabled.
func ShowPerf() bool { return showPerf.Load() }
