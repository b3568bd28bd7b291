// Package journal keeps a bbolt-backed history of plan runs.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cgast/should/pkg/fault"
)

var runsBucket = []byte("runs")

// ErrNoPlan is returned by List for a plan that was never recorded.
var ErrNoPlan = errors.New("journal: no runs recorded for plan")

// Entry is one recorded plan run.
type Entry struct {
	Seq        uint64       `json:"seq"`
	Plan       string       `json:"plan"`
	Kind       string       `json:"kind,omitempty"`
	Mode       string       `json:"mode,omitempty"`
	Passed     bool         `json:"passed"`
	Raised     bool         `json:"raised,omitempty"`
	Fault      *fault.Error `json:"fault,omitempty"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// Recorder accepts plan runs.
type Recorder interface {
	Record(e Entry) (Entry, error)
}

// Journal is a bbolt-backed Recorder. Runs are grouped by plan name, one
// nested bucket per plan, keyed by a big-endian sequence number so cursor
// order is recording order.
type Journal struct {
	db         *bolt.DB
	maxEntries int
	mu         sync.RWMutex
}

// Open opens or creates a journal at path. maxEntries bounds the runs kept
// per plan; zero or less keeps everything.
func Open(path string, maxEntries int) (*Journal, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &Journal{db: db, maxEntries: maxEntries}, nil
}

// Record appends e under its plan, stamping Seq and, when unset,
// RecordedAt. It returns the stored entry.
func (j *Journal) Record(e Entry) (Entry, error) {
	if e.Plan == "" {
		return Entry{}, errors.New("journal: entry has no plan name")
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket(runsBucket).CreateBucketIfNotExists([]byte(e.Plan))
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", e.Plan, err)
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		e.Seq = seq
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		if err := b.Put(key(seq), data); err != nil {
			return err
		}
		return trim(b, j.maxEntries)
	})
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List returns the runs recorded for plan, oldest first. A positive limit
// keeps only the most recent limit runs.
func (j *Journal) List(plan string, limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var entries []Entry
	err := j.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(runsBucket).Bucket([]byte(plan))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrNoPlan, plan)
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) == limit {
				break
			}
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal run %d: %w", binary.BigEndian.Uint64(k), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	return entries, nil
}

// Plans returns the names of every plan with recorded runs, sorted.
func (j *Journal) Plans() ([]string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var names []string
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, v []byte) error {
			if v == nil {
				names = append(names, string(k))
			}
			return nil
		})
	})
	return names, err
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func key(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// trim deletes the oldest runs in b beyond max.
func trim(b *bolt.Bucket, max int) error {
	if max <= 0 {
		return nil
	}
	c := b.Cursor()
	n := 0
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	if n <= max {
		return nil
	}
	var stale [][]byte
	for k, _ := c.First(); k != nil && len(stale) < n-max; k, _ = c.Next() {
		stale = append(stale, slices.Clone(k))
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
