package txrepo

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/rs/zerolog"
)

var bucketName = []byte("transactions")

// BoltRepo stores transactions in an embedded bolt database file.
// Keys are the bucket sequence so that iteration follows append order.
type BoltRepo struct {
	db *bolt.DB
}

// NewBoltRepo opens (or creates) the database at path and ensures the bucket exists.
func NewBoltRepo(path string, timeout time.Duration) (*BoltRepo, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltRepo{db: db}, nil
}

// Close releases the database file lock.
func (r *BoltRepo) Close() error {
	return r.db.Close()
}

// Append stores the transaction under the next sequence number.
func (r *BoltRepo) Append(ctx context.Context, t domain.Transaction) error {
	l := zerolog.Ctx(ctx)

	value, err := json.Marshal(t)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		return b.Put(key, value)
	})
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	return nil
}

// List returns all transactions in insertion order.
func (r *BoltRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	items := []domain.Transaction{}

	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, v []byte) error {
			var t domain.Transaction
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}

			items = append(items, t)

			return nil
		})
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return nil, err
	}

	return items, nil
}
