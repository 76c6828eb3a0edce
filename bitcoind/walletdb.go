package bitcoind

import (
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketBcliMeta = []byte("bcli_meta")

// WalletDB is the database-transaction bracket every completion callback
// runs inside (spec.md §4.2, §7). It is a thin wrapper over the teacher's
// bbolt dependency (node/store/db.go's Open/Update pattern), reduced to the
// one bucket the driver itself needs and a passthrough Update for callers.
type WalletDB struct {
	db *bolt.DB
}

// OpenWalletDB opens (creating if absent) a bbolt database at
// <datadir>/bcli.db.
func OpenWalletDB(datadir string) (*WalletDB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("bitcoind: datadir required")
	}
	path := filepath.Join(datadir, "bcli.db")
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bitcoind: open wallet db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBcliMeta)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bitcoind: create bucket: %w", err)
	}
	return &WalletDB{db: db}, nil
}

// Close closes the underlying bbolt file.
func (w *WalletDB) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}

// Update runs fn inside a bbolt read-write transaction — the database
// bracket the driver's completion callbacks execute inside.
func (w *WalletDB) Update(fn func(tx *bolt.Tx) error) error {
	return w.db.Update(fn)
}
