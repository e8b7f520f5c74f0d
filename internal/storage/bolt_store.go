package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	errBucketMissing = errors.New("event bucket missing")
	errEmptyID       = errors.New("event id is empty")
)

var eventBucket = []byte("processed_events")

// processedRecord is the value stored per event id: when it was processed
// and when the entry stops suppressing redeliveries.
type processedRecord struct {
	processedAt time.Time
	expiresAt   time.Time
}

const recordBytes = 16

func (r processedRecord) encode() []byte {
	buf := make([]byte, recordBytes)
	binary.BigEndian.PutUint64(buf[:8], uint64(r.processedAt.UnixNano()))
	binary.BigEndian.PutUint64(buf[8:], uint64(r.expiresAt.UnixNano()))
	return buf
}

func decodeRecord(value []byte) (processedRecord, bool) {
	if len(value) != recordBytes {
		return processedRecord{}, false
	}
	processed := int64(binary.BigEndian.Uint64(value[:8]))
	expires := int64(binary.BigEndian.Uint64(value[8:]))
	if processed <= 0 || expires <= 0 {
		return processedRecord{}, false
	}
	return processedRecord{
		processedAt: time.Unix(0, processed),
		expiresAt:   time.Unix(0, expires),
	}, true
}

func (r processedRecord) live(now time.Time) bool {
	return r.expiresAt.After(now)
}

// boltStore implements a Store backed by BoltDB. Lookups are read-only;
// expired entries are swept on the write path at most once per interval.
type boltStore struct {
	db            *bolt.DB
	ttl           time.Duration
	sweepInterval time.Duration
	sweepMu       sync.Mutex
	lastSweep     atomic.Int64
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(eventBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:            db,
		ttl:           opts.EventTTL,
		sweepInterval: opts.CleanupInterval,
	}
	store.lastSweep.Store(time.Now().UnixNano())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenEvent reports whether the event ID was marked and has not expired.
func (b *boltStore) SeenEvent(id string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}
	if id == "" {
		return false, errEmptyID
	}

	now := time.Now()
	var seen bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(eventBucket)
		if bucket == nil {
			return errBucketMissing
		}
		rec, ok := decodeRecord(bucket.Get([]byte(id)))
		seen = ok && rec.live(now)
		return nil
	})
	return seen, err
}

// MarkEvent records the event ID as processed until the TTL elapses.
func (b *boltStore) MarkEvent(id string) error {
	if b == nil || b.db == nil {
		return nil
	}
	if id == "" {
		return errEmptyID
	}

	now := time.Now()
	if err := b.maybeSweep(now); err != nil {
		return err
	}

	rec := processedRecord{processedAt: now, expiresAt: now.Add(b.ttl)}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(eventBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(id), rec.encode())
	})
}

// maybeSweep deletes expired or unreadable entries when the sweep interval elapsed.
func (b *boltStore) maybeSweep(now time.Time) error {
	if now.Sub(time.Unix(0, b.lastSweep.Load())) < b.sweepInterval {
		return nil
	}

	b.sweepMu.Lock()
	defer b.sweepMu.Unlock()
	if now.Sub(time.Unix(0, b.lastSweep.Load())) < b.sweepInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(eventBucket)
		if bucket == nil {
			return errBucketMissing
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if rec, ok := decodeRecord(v); ok && rec.live(now) {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastSweep.Store(now.UnixNano())
	}
	return err
}

// count returns the number of stored entries, live or not.
func (b *boltStore) count() (int, error) {
	var n int
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(eventBucket)
		if bucket == nil {
			return errBucketMissing
		}
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}
