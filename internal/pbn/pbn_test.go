package pbn

import (
	"strings"
	"testing"

	"github.com/hailam-chessplay/bridge-solver/internal/deal"
)

const sampleDeal = `N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72`

func TestExtractDealTag(t *testing.T) {
	line := `[Deal "` + sampleDeal + `"]`
	got, ok := extractDealTag(line)
	if !ok || got != sampleDeal {
		t.Fatalf("extractDealTag(%q) = (%q, %v), want (%q, true)", line, got, ok, sampleDeal)
	}
}

func TestExtractDealTagNoMatch(t *testing.T) {
	if _, ok := extractDealTag(`[Event "Test"]`); ok {
		t.Error("expected no match for non-Deal tag")
	}
}

func TestExtractVulnerability(t *testing.T) {
	cases := map[string]Vulnerability{
		`[Vulnerable "None"]`: VulnNone,
		`[Vulnerable "NS"]`:   VulnNS,
		`[Vulnerable "EW"]`:   VulnEW,
		`[Vulnerable "All"]`:  VulnAll,
		`[Vulnerable "Both"]`: VulnAll,
	}
	for line, want := range cases {
		got, ok := ExtractVulnerability(line)
		if !ok || got != want {
			t.Errorf("ExtractVulnerability(%q) = (%v, %v), want (%v, true)", line, got, ok, want)
		}
	}
}

func TestExtractTagName(t *testing.T) {
	cases := map[string]string{
		`[Event "Test"]`:               "Event",
		`[OptimumResultTable "..."]`:   "OptimumResultTable",
		`[Deal "N:..."]`:               "Deal",
	}
	for line, want := range cases {
		got, ok := extractTagName(line)
		if !ok || got != want {
			t.Errorf("extractTagName(%q) = (%q, %v), want (%q, true)", line, got, ok, want)
		}
	}
	if _, ok := extractTagName("N NT 3"); ok {
		t.Error("expected no tag name in a bare data line")
	}
}

func TestEncodeDDT(t *testing.T) {
	var r DDResults
	r.Tricks[0] = [5]uint8{9, 10, 8, 7, 8}
	got := r.EncodeDDT()
	if len(got) != 20 {
		t.Fatalf("EncodeDDT length = %d, want 20", len(got))
	}
	if got[:5] != "9a788" {
		t.Errorf("EncodeDDT N row = %q, want %q", got[:5], "9a788")
	}
	if got[5:] != strings.Repeat("0", 15) {
		t.Errorf("EncodeDDT S/E/W rows = %q, want all zero", got[5:])
	}
}

func TestProcessFilePassesThroughUnparseableBlock(t *testing.T) {
	content := "[Event \"Test\"]\n[Site \"Somewhere\"]\n"
	result := ProcessFile(content, func(h deal.Hands) DDResults { return DDResults{} })
	if result.DealsFound != 0 {
		t.Errorf("DealsFound = %d, want 0", result.DealsFound)
	}
	if result.Output != content {
		t.Errorf("output = %q, want unchanged %q", result.Output, content)
	}
}

func TestProcessFileInsertsDDTags(t *testing.T) {
	content := "[Event \"Test\"]\n[Deal \"" + sampleDeal + "\"]\n[Result \"4S\"]\n"
	called := false
	result := ProcessFile(content, func(h deal.Hands) DDResults {
		called = true
		var r DDResults
		r.Tricks[0][1] = 10
		return r
	})
	if !called {
		t.Fatal("solve function was never called")
	}
	if result.DealsFound != 1 {
		t.Errorf("DealsFound = %d, want 1", result.DealsFound)
	}
	if !strings.Contains(result.Output, "[DoubleDummyTricks ") {
		t.Errorf("output missing DoubleDummyTricks tag:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "[OptimumResultTable ") {
		t.Errorf("output missing OptimumResultTable tag:\n%s", result.Output)
	}
}

func TestProcessFileReplacesExistingDDTags(t *testing.T) {
	content := "[Deal \"" + sampleDeal + "\"]\n[DoubleDummyTricks \"00000000000000000000\"]\n[OptimumResultTable \"x\"]\nN NT  3\n"
	result := ProcessFile(content, func(h deal.Hands) DDResults {
		var r DDResults
		r.Tricks[0][0] = 9
		return r
	})
	if strings.Count(result.Output, "[DoubleDummyTricks ") != 1 {
		t.Errorf("expected exactly one DoubleDummyTricks tag, got:\n%s", result.Output)
	}
	if strings.Contains(result.Output, "00000000000000000000") {
		t.Error("stale DoubleDummyTricks value was not replaced")
	}
	if strings.Contains(result.Output, "N NT  3") {
		t.Error("stale OptimumResultTable data line was not dropped")
	}
}

func TestIsOptimumResultDataLine(t *testing.T) {
	if !isOptimumResultDataLine("N NT  3") {
		t.Error("expected valid data line to match")
	}
	if isOptimumResultDataLine("[Event \"Test\"]") {
		t.Error("tag line should not match")
	}
	if isOptimumResultDataLine("") {
		t.Error("blank line should not match")
	}
}

func TestDeclarerTricks(t *testing.T) {
	if got := DeclarerTricks(deal.North, 9, 13); got != 9 {
		t.Errorf("DeclarerTricks(North, 9, 13) = %d, want 9", got)
	}
	if got := DeclarerTricks(deal.East, 9, 13); got != 4 {
		t.Errorf("DeclarerTricks(East, 9, 13) = %d, want 4", got)
	}
}
