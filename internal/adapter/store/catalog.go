// Package store persists ingestion state in a local bbolt database.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketDocuments = []byte("documents")
	bucketMeta      = []byte("meta")
)

// Catalog records which documents have been ingested, keyed by document ID
// (the SHA-256 of the extracted text). It is the idempotence check for
// re-runs over the same advisory directory.
type Catalog struct {
	db *bbolt.DB
}

// DocumentEntry is the catalog value for one ingested document.
type DocumentEntry struct {
	Name       string    `json:"name"`
	Chunks     int       `json:"chunks"`
	IngestedAt time.Time `json:"ingested_at"`
}

func NewCatalog(path string) (*Catalog, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketDocuments, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// DB exposes the underlying handle so other adapters can share the same
// database file.
func (c *Catalog) DB() *bbolt.DB {
	return c.db
}

func (c *Catalog) PutDocument(id string, entry DocumentEntry) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDocuments).Put([]byte(id), data)
	})
}

// GetDocument returns the entry for id and whether it exists.
func (c *Catalog) GetDocument(id string) (DocumentEntry, bool, error) {
	var entry DocumentEntry
	found := false
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDocuments).Get([]byte(id))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		found = true
		return nil
	})
	return entry, found, err
}

// ListDocuments returns every catalog entry keyed by document ID.
func (c *Catalog) ListDocuments() (map[string]DocumentEntry, error) {
	entries := make(map[string]DocumentEntry)
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(k, v []byte) error {
			var entry DocumentEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			entries[string(k)] = entry
			return nil
		})
	})
	return entries, err
}

func (c *Catalog) DeleteDocument(id string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketDocuments).Delete([]byte(id))
	})
}

func (c *Catalog) Close() error {
	return c.db.Close()
}
