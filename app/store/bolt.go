package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const mcqsBktName = "mcqs"

// Bolt is a storage that uses BoltDB as a backend.
// Keys are big-endian bucket sequence numbers, so the key order is
// the insertion order.
type Bolt struct {
	db *bolt.DB
}

// NewBolt creates new Bolt storage in the given file.
func NewBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(mcqsBktName)); err != nil {
			return fmt.Errorf("create top-level bucket %s: %w", mcqsBktName, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

// InsertBatch puts all questions to storage in a single transaction.
func (b *Bolt) InsertBatch(_ context.Context, mcqs []MCQ) (int, error) {
	if len(mcqs) == 0 {
		return 0, nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(mcqsBktName))

		for _, q := range mcqs {
			seq, err := bkt.NextSequence()
			if err != nil {
				return fmt.Errorf("next sequence: %w", err)
			}

			bts, err := json.Marshal(q)
			if err != nil {
				return fmt.Errorf("marshal mcq: %w", err)
			}

			if err := bkt.Put(seqKey(seq), bts); err != nil {
				return fmt.Errorf("put mcq to storage: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("update storage: %w", err)
	}

	return len(mcqs), nil
}

// List returns a page of questions, the most recently inserted first.
func (b *Bolt) List(_ context.Context, req ListRequest) (Page, error) {
	req, err := req.normalize()
	if err != nil {
		return Page{}, err
	}

	var (
		items []MCQ
		total int
	)

	err = b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(mcqsBktName))
		total = bkt.Stats().KeyN

		skip := req.skip()
		c := bkt.Cursor()
		for k, v := c.Last(); k != nil && len(items) < req.PageSize; k, v = c.Prev() {
			if skip > 0 {
				skip--
				continue
			}

			var q MCQ
			if err := json.Unmarshal(v, &q); err != nil {
				return fmt.Errorf("unmarshal mcq %d: %w", binary.BigEndian.Uint64(k), err)
			}
			items = append(items, q)
		}

		return nil
	})
	if err != nil {
		return Page{}, fmt.Errorf("view storage: %w", err)
	}

	return newPage(req, items, total), nil
}

// Close closes the storage.
func (b *Bolt) Close(context.Context) error { return b.db.Close() }

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
