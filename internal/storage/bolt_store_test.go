package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresEvents(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		EventTTL:        1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(filepath.Join(dir, "events.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	seen, err := store.SeenEvent("evt_1")
	if err != nil || seen {
		t.Fatalf("expected unseen event, seen=%v err=%v", seen, err)
	}

	if err := store.MarkEvent("evt_1"); err != nil {
		t.Fatalf("MarkEvent: %v", err)
	}

	seen, err = store.SeenEvent("evt_1")
	if err != nil || !seen {
		t.Fatalf("expected event marked as seen, got seen=%v err=%v", seen, err)
	}

	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenEvent("evt_1")
	if err != nil {
		t.Fatalf("SeenEvent after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire")
	}
}

func TestBoltStoreSweepsExpiredOnWrite(t *testing.T) {
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "events.db"), Options{
		EventTTL:        time.Millisecond,
		CleanupInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	for _, id := range []string{"evt_a", "evt_b"} {
		if err := store.MarkEvent(id); err != nil {
			t.Fatalf("MarkEvent(%s): %v", id, err)
		}
	}
	time.Sleep(5 * time.Millisecond)

	if seen, _ := store.SeenEvent("evt_a"); seen {
		t.Fatalf("evt_a should have expired")
	}
	if n, _ := store.count(); n != 2 {
		t.Fatalf("lookups must not delete entries, have %d", n)
	}

	// Force the next write to sweep.
	store.lastSweep.Store(time.Now().Add(-2 * time.Hour).UnixNano())
	if err := store.MarkEvent("evt_c"); err != nil {
		t.Fatalf("MarkEvent(evt_c): %v", err)
	}
	if n, _ := store.count(); n != 1 {
		t.Fatalf("expected only evt_c after sweep, have %d", n)
	}
}

func TestProcessedRecordRoundTrip(t *testing.T) {
	now := time.Now()
	rec := processedRecord{processedAt: now, expiresAt: now.Add(time.Hour)}
	got, ok := decodeRecord(rec.encode())
	if !ok || !got.processedAt.Equal(time.Unix(0, now.UnixNano())) || !got.live(now) {
		t.Fatalf("unexpected record %#v ok=%v", got, ok)
	}
	if _, ok := decodeRecord([]byte("short")); ok {
		t.Fatalf("short value should not decode")
	}
	if _, ok := decodeRecord(nil); ok {
		t.Fatalf("missing value should not decode")
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.db")

	store, err := NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.MarkEvent("evt_2"); err != nil {
		t.Fatalf("MarkEvent: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = NewStore("BBOLT", path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	seen, err := store.SeenEvent("evt_2")
	if err != nil || !seen {
		t.Fatalf("expected evt_2 to survive reopen, seen=%v err=%v", seen, err)
	}
}

func TestBoltStoreRejectsEmptyID(t *testing.T) {
	store, err := NewStore("bbolt", filepath.Join(t.TempDir(), "events.db"), Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if err := store.MarkEvent(""); err == nil {
		t.Fatalf("expected error marking empty id")
	}
	if _, err := store.SeenEvent(""); err == nil {
		t.Fatalf("expected error checking empty id")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkEvent("x"); err != nil {
		t.Fatalf("noop store MarkEvent: %v", err)
	}
	if seen, _ := store.SeenEvent("x"); seen {
		t.Fatalf("noop store should never report seen")
	}
}

func TestNewStoreValidatesInput(t *testing.T) {
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for empty bbolt path")
	}
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.EventTTL != defaultEventTTL || opts.CleanupInterval != defaultCleanupInterval {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}
