package deal

import "testing"

const sampleDeal = "N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72"

func TestParsePBNSizes(t *testing.T) {
	h, err := ParsePBN(sampleDeal)
	if err != nil {
		t.Fatalf("ParsePBN: %v", err)
	}
	for s := West; s < NumSeats; s++ {
		if got := h.Hand(s).Size(); got != 13 {
			t.Errorf("seat %s has %d cards, want 13", s, got)
		}
	}
	if got := h.AllCards().Size(); got != 52 {
		t.Errorf("AllCards().Size() = %d, want 52", got)
	}
}

func TestParsePBNRotation(t *testing.T) {
	// Same deal, described starting from West instead of North, should
	// produce identical hands once rotated back.
	h, err := ParsePBN(sampleDeal)
	if err != nil {
		t.Fatalf("ParsePBN: %v", err)
	}
	west := h.Hand(West)
	rotated := "W:98.873.9653.QJ72 AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863"
	h2, err := ParsePBN(rotated)
	if err != nil {
		t.Fatalf("ParsePBN(rotated): %v", err)
	}
	if h2.Hand(West) != west {
		t.Errorf("rotation mismatch: %s != %s", h2.Hand(West), west)
	}
}

func TestParsePBNRejectsBadSeatCount(t *testing.T) {
	if _, err := ParsePBN("N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4"); err == nil {
		t.Fatal("expected error for missing hands")
	}
}

func TestParsePBNRejectsDuplicateCard(t *testing.T) {
	bad := "N:AKQT32.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72"
	if _, err := ParsePBN(bad); err == nil {
		t.Fatal("expected validation error for 14-card hand")
	}
}

func TestSeatArithmetic(t *testing.T) {
	if Partner(West) != East || Partner(North) != South {
		t.Error("Partner mapping wrong")
	}
	if LHO(West) != North || RHO(West) != South {
		t.Error("LHO/RHO mapping wrong")
	}
	if IsNS(West) || !IsNS(North) || IsNS(East) || !IsNS(South) {
		t.Error("IsNS mapping wrong")
	}
}

func TestParseHandSpaces(t *testing.T) {
	c, err := ParseHandSpaces("AKQT3 J6 KJ42 95")
	if err != nil {
		t.Fatalf("ParseHandSpaces: %v", err)
	}
	if c.Size() != 13 {
		t.Errorf("size = %d, want 13", c.Size())
	}
}
