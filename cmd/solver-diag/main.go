// Command solver-diag is the hand-diagram diagnostic tool: given a
// whitespace-separated hand file, it prints the deal and solves every
// requested trump/leader combination, optionally with the search's
// internal heuristics individually disabled to isolate a bug.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hailam-chessplay/bridge-solver/internal/cards"
	"github.com/hailam-chessplay/bridge-solver/internal/deal"
	"github.com/hailam-chessplay/bridge-solver/internal/pattern"
	"github.com/hailam-chessplay/bridge-solver/internal/solve"
)

var (
	filePath   = flag.String("f", "", "hand file (required)")
	xrayLimit  = flag.Int("X", 0, "xray limit (stored only; the search emits no xray trace)")
	noPruning  = flag.Bool("P", false, "disable fast/slow-trick pruning")
	noTT       = flag.Bool("T", false, "disable the pattern (transposition) cache")
	noRankSkip = flag.Bool("R", false, "disable rank-equivalence move suppression")
	showPerf   = flag.Bool("V", false, "print node-count and timing diagnostics")
)

func main() {
	flag.Parse()
	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: solver-diag -f <file> [-X <iterations>] [-P] [-T] [-R] [-V]")
		os.Exit(1)
	}

	if *xrayLimit > 0 {
		solve.SetXrayLimit(*xrayLimit)
	}
	solve.SetNoPruning(*noPruning)
	solve.SetNoTT(*noTT)
	solve.SetNoRankSkip(*noRankSkip)
	solve.SetShowPerf(*showPerf)

	hands, trump, leader, err := readHandFile(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printHandDiagram(hands)

	trumps := []cards.Suit{cards.NoTrump, cards.Spade, cards.Heart, cards.Diamond, cards.Club}
	if trump != nil {
		trumps = []cards.Suit{*trump}
	}
	leaders := []deal.Seat{deal.West, deal.East, deal.North, deal.South}
	if leader != nil {
		leaders = []deal.Seat{*leader}
	}

	numTricks := uint8(hands.NumTricks())

	for _, t := range trumps {
		cutoff := solve.NewCutoffCache(16)
		patternCache := pattern.NewCache(16)

		if len(leaders) == 1 {
			l := leaders[0]
			solve.ResetNodeCount()
			start := time.Now()
			s := solve.NewSolver(hands, t, l)
			nsTricks := uint8(s.SolveWithCaches(cutoff, patternCache))
			elapsed := time.Since(start)
			result := declarerResult(l, nsTricks, numTricks)
			perf := ""
			if solve.ShowPerf() {
				perf = " " + humanize.Comma(solve.NodeCount())
			}
			fmt.Printf("%s  %d  %.2f s%s N/A\n", trumpChar(t), result, elapsed.Seconds(), perf)
			continue
		}

		var results [4]uint8
		var total time.Duration
		var nodes int64
		for i, l := range leaders {
			solve.ResetNodeCount()
			start := time.Now()
			s := solve.NewSolver(hands, t, l)
			nsTricks := uint8(s.SolveWithCaches(cutoff, patternCache))
			total += time.Since(start)
			nodes += solve.NodeCount()
			results[i] = declarerResult(l, nsTricks, numTricks)
		}
		perf := ""
		if solve.ShowPerf() {
			perf = " " + humanize.Comma(nodes)
		}
		fmt.Printf("%s  %d  %d  %d  %d  %.2f s%s N/A\n", trumpChar(t), results[0], results[1], results[2], results[3], total.Seconds(), perf)
	}
}

// declarerResult mirrors the original C++/Rust CLI's output convention:
// when N/S leads, the printed number is the total minus NS's tricks
// (i.e. the tricks of the declaring side, the leader's opponents).
func declarerResult(leader deal.Seat, nsTricks, numTricks uint8) uint8 {
	if deal.IsNS(leader) {
		return numTricks - nsTricks
	}
	return nsTricks
}

func trumpChar(t cards.Suit) string {
	switch t {
	case cards.NoTrump:
		return "N"
	case cards.Spade:
		return "S"
	case cards.Heart:
		return "H"
	case cards.Diamond:
		return "D"
	case cards.Club:
		return "C"
	default:
		return "?"
	}
}

// readHandFile parses the solver-compatible hand file format:
//
//	line 1: North hand
//	line 2: West hand   East hand (separated by 2+ spaces or a tab)
//	line 3: South hand
//	line 4: trump (optional, one of N/S/H/D/C)
//	line 5: leader (optional, one of W/N/E/S)
func readHandFile(path string) (deal.Hands, *cards.Suit, *deal.Seat, error) {
	f, err := os.Open(path)
	if err != nil {
		return deal.Hands{}, nil, nil, fmt.Errorf("reading file %q: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) < 3 {
		return deal.Hands{}, nil, nil, fmt.Errorf("file must have at least 3 lines (N, W E, S)")
	}

	var h deal.Hands
	north, err := deal.ParseHandSpaces(lines[0])
	if err != nil {
		return deal.Hands{}, nil, nil, fmt.Errorf("north hand: %w", err)
	}
	h.SetHand(deal.North, north)

	westStr, eastStr := splitWestEast(lines[1])
	west, err := deal.ParseHandSpaces(westStr)
	if err != nil {
		return deal.Hands{}, nil, nil, fmt.Errorf("west hand: %w", err)
	}
	h.SetHand(deal.West, west)
	east, err := deal.ParseHandSpaces(eastStr)
	if err != nil {
		return deal.Hands{}, nil, nil, fmt.Errorf("east hand: %w", err)
	}
	h.SetHand(deal.East, east)

	south, err := deal.ParseHandSpaces(lines[2])
	if err != nil {
		return deal.Hands{}, nil, nil, fmt.Errorf("south hand: %w", err)
	}
	h.SetHand(deal.South, south)

	var trump *cards.Suit
	if len(lines) > 3 && strings.TrimSpace(lines[3]) != "" {
		c := strings.TrimSpace(lines[3])[0]
		t, ok := cards.ParseSuit(c)
		if !ok {
			return deal.Hands{}, nil, nil, fmt.Errorf("invalid trump %q", c)
		}
		trump = &t
	}

	var leader *deal.Seat
	if len(lines) > 4 && strings.TrimSpace(lines[4]) != "" {
		c := strings.TrimSpace(lines[4])[0]
		s, ok := deal.ParseSeat(c)
		if !ok {
			return deal.Hands{}, nil, nil, fmt.Errorf("invalid leader %q", c)
		}
		leader = &s
	}

	return h, trump, leader, nil
}

// splitWestEast divides a "West   East" line at its first run of 2+
// spaces, falling back to a tab or an even word-count split.
func splitWestEast(line string) (string, string) {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' {
			continue
		}
		start := i
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i-start >= 2 {
			return strings.TrimSpace(line[:start]), strings.TrimSpace(line[i:])
		}
	}
	if idx := strings.IndexByte(line, '\t'); idx >= 0 {
		return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx:])
	}
	fields := strings.Fields(line)
	mid := len(fields) / 2
	return strings.Join(fields[:mid], " "), strings.Join(fields[mid:], " ")
}

func printHandDiagram(h deal.Hands) {
	fmt.Println(h.String())
}
