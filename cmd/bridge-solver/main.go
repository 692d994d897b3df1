// Command bridge-solver reads a PBN file, solves every deal it finds for
// all 20 declarer/denomination combinations, and writes back
// DoubleDummyTricks/OptimumResultTable tags — the Go equivalent of the
// original Rust CLI of the same name, restructured around a bounded
// worker pool instead of a single-threaded loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
	"github.com/hailam-chessplay/bridge-solver/internal/obslog"
	"github.com/hailam-chessplay/bridge-solver/internal/pattern"
	"github.com/hailam-chessplay/bridge-solver/internal/pbn"
	"github.com/hailam-chessplay/bridge-solver/internal/resultcache"
	"github.com/hailam-chessplay/bridge-solver/internal/solve"
)

var (
	inputPath  = flag.String("i", "", "input PBN file (required)")
	outputPath = flag.String("o", "", "output PBN file (default: stdout)")
	verbose    = flag.Bool("v", false, "verbose progress output")
	quiet      = flag.Bool("quiet", false, "suppress all non-error output")
	cachePath  = flag.String("cache", "", "persistent result cache directory (optional)")
	workers    = flag.Int("workers", 4, "max concurrent denomination solves per deal")
)

var denominations = [5]cards.Suit{cards.NoTrump, cards.Spade, cards.Heart, cards.Diamond, cards.Club}

func main() {
	flag.Parse()
	log := obslog.For("bridge-solver")
	obslog.SetVerbose(*verbose && !*quiet)

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: bridge-solver -i <file.pbn> [-o <file.pbn>] [-v] [-cache <dir>]")
		os.Exit(1)
	}

	content, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input file %q: %v\n", *inputPath, err)
		os.Exit(1)
	}

	var cache *resultcache.Cache
	if *cachePath != "" {
		cache, err = resultcache.Open(*cachePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening result cache: %v\n", err)
			os.Exit(1)
		}
		defer cache.Close()
	}

	solver := newBatchSolver(cache, *workers)
	result := pbn.ProcessFile(string(content), solver.solveDeal)
	if !*quiet {
		log.Info("processed deal blocks", "count", result.DealsFound)
	}

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, []byte(result.Output), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error writing output file %q: %v\n", *outputPath, err)
			os.Exit(1)
		}
		if *verbose {
			log.Info("output written", "path", *outputPath)
		}
		return
	}
	fmt.Print(result.Output)
}

// batchSolver bounds concurrent denomination solves per deal with a
// weighted semaphore, the way the teacher's engine package bounds its
// Lazy SMP worker count — but expressed with errgroup/semaphore rather
// than a raw WaitGroup. A unit of work returns an error only when its
// semaphore acquire fails on a cancelled context; result-cache errors
// are not routed through the group.
type batchSolver struct {
	cache *resultcache.Cache
	sem   *semaphore.Weighted
}

func newBatchSolver(cache *resultcache.Cache, workers int) *batchSolver {
	if workers < 1 {
		workers = 1
	}
	return &batchSolver{cache: cache, sem: semaphore.NewWeighted(int64(workers))}
}

// solveDeal computes the full 20-entry declarer/denomination table for
// one deal, consulting and populating the result cache when configured.
func (b *batchSolver) solveDeal(hands deal.Hands) pbn.DDResults {
	if b.cache != nil {
		if entry, found, err := b.cache.Get(resultcache.NormalizeKey(hands)); err == nil && found {
			var r pbn.DDResults
			for decl := 0; decl < 4; decl++ {
				for denom := 0; denom < 5; denom++ {
					r.Tricks[decl][denom] = uint8(entry.Tricks[decl][denom])
				}
			}
			return r
		}
	}

	numTricks := uint8(hands.NumTricks())
	var nsTricksByDenom [5][4]uint8 // [denom][leader] = NS tricks

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	for di, trump := range denominations {
		di, trump := di, trump
		g.Go(func() error {
			if err := b.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer b.sem.Release(1)

			cutoff := solve.NewCutoffCache(16)
			patternCache := pattern.NewCache(16)
			for leader := deal.West; leader < deal.NumSeats; leader++ {
				s := solve.NewSolver(hands, trump, leader)
				nsTricksByDenom[di][leader] = uint8(s.SolveWithCaches(cutoff, patternCache))
			}
			return nil
		})
	}
	// Errors here can only come from a cancelled context; a single-batch
	// run never cancels, so there is nothing recoverable to report.
	_ = g.Wait()

	var r pbn.DDResults
	for decl := 0; decl < 4; decl++ {
		declSeat := pbn.DeclarerSeats()[decl]
		leader := deal.LHO(declSeat)
		for denom := 0; denom < 5; denom++ {
			ns := nsTricksByDenom[denom][leader]
			r.Tricks[decl][denom] = pbn.DeclarerTricks(declSeat, ns, numTricks)
		}
	}

	if b.cache != nil {
		entry := resultcache.Entry{PBN: resultcache.NormalizeKey(hands)}
		for decl := 0; decl < 4; decl++ {
			for denom := 0; denom < 5; denom++ {
				entry.Tricks[decl][denom] = int(r.Tricks[decl][denom])
			}
		}
		_ = b.cache.Put(entry)
	}
	return r
}
