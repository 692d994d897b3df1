// Package pbn rewrites PBN (Portable Bridge Notation) files: it finds
// each deal block, runs it through a caller-supplied solve function, and
// inserts or replaces the DoubleDummyTricks and OptimumResultTable tags
// Bridge Composer expects. Blocks whose Deal tag can't be parsed pass
// through unchanged.
package pbn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

// Vulnerability is the deal's vulnerability state, parsed from the
// [Vulnerable "..."] tag.
type Vulnerability int

const (
	VulnNone Vulnerability = iota
	VulnNS
	VulnEW
	VulnAll
)

// DDResults holds every declarer/denomination combination's trick count:
// Tricks[declarer][denomination], declarer in N,S,E,W order, denomination
// in NT,S,H,D,C order.
type DDResults struct {
	Tricks [4][5]uint8
}

var declarerSeats = [4]deal.Seat{deal.North, deal.South, deal.East, deal.West}
var declarerNames = [4]string{"N", "S", "E", "W"}
var denomNames = [5]string{"NT", " S", " H", " D", " C"}

// DeclarerSeats lists DDResults' four declarer rows in order (N, S, E,
// W). Together with DeclarerTricks it lets a caller that solves NS
// tricks for one leader fill those rows: the leader is the declarer's
// left-hand opponent, and E/W's trick count is the complement of NS's
// within the deal's total tricks.
func DeclarerSeats() [4]deal.Seat { return declarerSeats }

// DeclarerTricks converts an NS trick count (as returned for the seat
// left of declarer leading) into that declarer's own trick count.
func DeclarerTricks(declarer deal.Seat, nsTricks, totalTricks uint8) uint8 {
	if deal.IsNS(declarer) {
		return nsTricks
	}
	return totalTricks - nsTricks
}

// EncodeDDT renders the 20-character DoubleDummyTricks tag value: one
// hex-like digit per (declarer, denomination) pair, '0'-'9' then 'a'-'d'
// for ten through thirteen tricks.
func (r DDResults) EncodeDDT() string {
	var b strings.Builder
	b.Grow(20)
	for decl := 0; decl < 4; decl++ {
		for denom := 0; denom < 5; denom++ {
			t := r.Tricks[decl][denom]
			if t <= 9 {
				b.WriteByte('0' + t)
			} else {
				b.WriteByte('a' + (t - 10))
			}
		}
	}
	return b.String()
}

// Tags renders the DoubleDummyTricks and OptimumResultTable tag block
// that ProcessFile inserts into a deal.
func (r DDResults) Tags() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[DoubleDummyTricks \"%s\"]\n", r.EncodeDDT())
	b.WriteString("[OptimumResultTable \"Declarer;Denomination\\2R;Result\\2R\"]\n")
	for decl := 0; decl < 4; decl++ {
		for denom := 0; denom < 5; denom++ {
			fmt.Fprintf(&b, "%s %s %2d\n", declarerNames[decl], denomNames[denom], r.Tricks[decl][denom])
		}
	}
	return b.String()
}

var ddTagNames = map[string]bool{
	"DoubleDummyTricks":  true,
	"OptimumScore":       true,
	"ParContract":        true,
	"OptimumResultTable": true,
}

// Solver computes a full declarer/denomination trick table for one deal;
// ProcessFile calls it once per recognized deal block.
type Solver func(hands deal.Hands) DDResults

// ProcessResult reports what ProcessFile did, for callers that want to
// log progress the way the original CLI's -v flag does.
type ProcessResult struct {
	Output     string
	DealsFound int
}

// ProcessFile scans content for deal blocks (runs of non-blank lines,
// blank lines inside {...} comments don't count as separators), solves
// each one whose [Deal "..."] tag parses, and rewrites its DD tags.
// Unparseable or Deal-less blocks pass through byte-for-byte.
func ProcessFile(content string, solve Solver) ProcessResult {
	lines := strings.Split(content, "\n")
	// strings.Split on a trailing newline produces one trailing empty
	// element; drop it so the reconstructed output doesn't gain a blank line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var out strings.Builder
	result := ProcessResult{}
	i := 0
	for i < len(lines) {
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			out.WriteString(lines[i])
			out.WriteByte('\n')
			i++
		}
		if i >= len(lines) {
			break
		}
		start := i
		inComment := false
		for i < len(lines) {
			for _, ch := range lines[i] {
				switch ch {
				case '{':
					inComment = true
				case '}':
					inComment = false
				}
			}
			i++
			if i < len(lines) && strings.TrimSpace(lines[i]) == "" && !inComment {
				break
			}
		}
		block := lines[start:i]
		processed, solved := processBlock(block, solve)
		if solved {
			result.DealsFound++
		}
		out.WriteString(processed)
	}
	result.Output = out.String()
	return result
}

func processBlock(lines []string, solve Solver) (string, bool) {
	var dealStr string
	for _, line := range lines {
		if d, ok := extractDealTag(line); ok {
			dealStr = d
			break
		}
	}
	if dealStr == "" {
		return passThrough(lines), false
	}
	hands, err := deal.ParsePBN(dealStr)
	if err != nil {
		return passThrough(lines), false
	}

	results := solve(hands)
	tags := results.Tags()
	return rewriteBlock(lines, tags), true
}

func passThrough(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// rewriteBlock strips any existing DD tags (and the OptimumResultTable's
// data lines) and inserts the fresh ones: where the first stale DD tag
// stood if there was one; otherwise after [Result ...] if present,
// otherwise in alphabetical tag order, otherwise at the block's end.
func rewriteBlock(lines []string, tags string) string {
	var kept []string
	foundInsertion := false
	insertAt := -1
	skippingOptimumData := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if tagName, ok := extractTagName(trimmed); ok && ddTagNames[tagName] {
			if !foundInsertion {
				insertAt = len(kept)
				foundInsertion = true
			}
			if tagName == "OptimumResultTable" {
				skippingOptimumData = true
			}
			continue
		}

		if skippingOptimumData {
			if isOptimumResultDataLine(line) {
				continue
			}
			skippingOptimumData = false
		}

		kept = append(kept, line)

		if !foundInsertion {
			switch {
			case strings.HasPrefix(trimmed, "[Result "):
				insertAt = len(kept)
			case strings.HasPrefix(trimmed, "["):
				if tagName, ok := extractTagName(trimmed); ok {
					if tagName > "DoubleDummyTricks" && insertAt < 0 {
						insertAt = len(kept) - 1
					} else if tagName < "DoubleDummyTricks" {
						insertAt = len(kept)
					}
				}
			}
		}
	}

	if insertAt < 0 || insertAt > len(kept) {
		insertAt = len(kept)
	}

	var b strings.Builder
	for idx, line := range kept {
		if idx == insertAt {
			b.WriteString(tags)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if insertAt >= len(kept) {
		b.WriteString(tags)
	}
	return b.String()
}

func extractDealTag(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[Deal ") {
		return "", false
	}
	return quotedContent(trimmed)
}

// ExtractVulnerability reads a [Vulnerable "..."] tag's value.
func ExtractVulnerability(line string) (Vulnerability, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[Vulnerable ") {
		return VulnNone, false
	}
	v, ok := quotedContent(trimmed)
	if !ok {
		return VulnNone, false
	}
	switch strings.ToUpper(v) {
	case "NONE", "LOVE", "-":
		return VulnNone, true
	case "NS", "N":
		return VulnNS, true
	case "EW", "E":
		return VulnEW, true
	case "ALL", "BOTH":
		return VulnAll, true
	default:
		return VulnNone, false
	}
}

func quotedContent(trimmed string) (string, bool) {
	start := strings.IndexByte(trimmed, '"')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(trimmed, '"')
	if end <= start {
		return "", false
	}
	return trimmed[start+1 : end], true
}

func extractTagName(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") {
		return "", false
	}
	rest := line[1:]
	end := strings.IndexAny(rest, " ]")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

var optimumSeats = map[string]bool{"N": true, "S": true, "E": true, "W": true}
var optimumDenoms = map[string]bool{"NT": true, "S": true, "H": true, "D": true, "C": true}

func isOptimumResultDataLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	parts := strings.Fields(trimmed)
	if len(parts) != 3 {
		return false
	}
	if !optimumSeats[parts[0]] || !optimumDenoms[parts[1]] {
		return false
	}
	_, err := strconv.ParseUint(parts[2], 10, 8)
	return err == nil
}
