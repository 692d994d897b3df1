package resultcache

import (
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	entry := Entry{PBN: "N:AKQT3.J6.KJ42.95 652.AK42.AQ87.T4 J74.QT95.T.AK863 98.873.9653.QJ72"}
	entry.Tricks[0] = [5]int{9, 10, 8, 7, 8}

	if err := c.Put(entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := c.Get(entry.PBN)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("expected cache hit after Put")
	}
	if got.Tricks != entry.Tricks {
		t.Errorf("Tricks = %v, want %v", got.Tricks, entry.Tricks)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	_, found, err := c.Get("no-such-key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("expected cache miss for unseen key")
	}
}

func TestPutOverwrites(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	entry := Entry{PBN: "key"}
	entry.Tricks[0][0] = 3
	if err := c.Put(entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entry.Tricks[0][0] = 7
	if err := c.Put(entry); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	got, _, err := c.Get("key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Tricks[0][0] != 7 {
		t.Errorf("Tricks[0][0] = %d, want 7 (overwritten value)", got.Tricks[0][0])
	}
}
