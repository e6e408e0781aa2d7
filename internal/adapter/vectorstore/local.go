// Package vectorstore provides the similarity index behind retrieval: a
// Qdrant adapter for server deployments and a bbolt-backed local index for
// offline use and tests.
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"cyberrag/internal/domain"
)

var bucketVectors = []byte("vectors")

// LocalStore is a bbolt-backed vector index with brute-force cosine search.
// Fine at advisory-collection scale; swap in a server-backed store when the
// corpus outgrows it.
type LocalStore struct {
	db        *bbolt.DB
	dimension int

	mu      sync.RWMutex
	records map[string]localEntry
}

type localEntry struct {
	vector []float32
	record domain.Record
}

type storedRecord struct {
	Vector     []float32           `json:"v"`
	Text       string              `json:"text"`
	DocName    string              `json:"doc_name"`
	DocID      string              `json:"doc_id"`
	Indicators map[string][]string `json:"indicators,omitempty"`
}

// NewLocalStore opens the index over an existing bbolt handle, typically
// shared with the ingest catalog, and loads all vectors into memory.
func NewLocalStore(db *bbolt.DB) (*LocalStore, error) {
	s := &LocalStore{
		db:      db,
		records: make(map[string]localEntry),
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load vectors: %w", err)
	}
	return s, nil
}

func (s *LocalStore) load() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var stored storedRecord
			if err := json.Unmarshal(v, &stored); err != nil {
				// Skip corrupted entries.
				return nil
			}
			s.records[string(k)] = localEntry{
				vector: stored.Vector,
				record: recordFromStored(string(k), stored),
			}
			if s.dimension == 0 {
				s.dimension = len(stored.Vector)
			}
			return nil
		})
	})
}

func recordFromStored(id string, stored storedRecord) domain.Record {
	indicators := make(domain.IndicatorSet, len(stored.Indicators))
	for k, v := range stored.Indicators {
		indicators[domain.IndicatorType(k)] = v
	}
	return domain.Record{
		ID:         id,
		Text:       stored.Text,
		DocName:    stored.DocName,
		DocID:      stored.DocID,
		Indicators: indicators,
	}
}

func (s *LocalStore) EnsureCollection(ctx context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension != 0 && s.dimension != dimension {
		return fmt.Errorf("index dimension is %d, embedder produces %d", s.dimension, dimension)
	}
	s.dimension = dimension

	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVectors)
		return err
	})
}

func (s *LocalStore) Insert(ctx context.Context, rec domain.Record, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension != 0 && len(vector) != s.dimension {
		return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}

	indicators := make(map[string][]string, len(rec.Indicators))
	for k, v := range rec.Indicators {
		indicators[string(k)] = v
	}
	stored := storedRecord{
		Vector:     vector,
		Text:       rec.Text,
		DocName:    rec.DocName,
		DocID:      rec.DocID,
		Indicators: indicators,
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketVectors)
		if err != nil {
			return err
		}
		return b.Put([]byte(rec.ID), data)
	})
	if err != nil {
		return err
	}

	s.records[rec.ID] = localEntry{vector: vector, record: rec}
	return nil
}

// Query scans all stored vectors and returns the topK most similar records.
// Distance is 1 minus cosine similarity, so smaller means closer.
func (s *LocalStore) Query(ctx context.Context, vector []float32, topK int) ([]domain.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dimension != 0 && len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(vector))
	}
	if len(s.records) == 0 || topK <= 0 {
		return nil, nil
	}

	type scored struct {
		sim   float64
		entry localEntry
	}
	scores := make([]scored, 0, len(s.records))
	for _, entry := range s.records {
		scores = append(scores, scored{
			sim:   cosineSimilarity(vector, entry.vector),
			entry: entry,
		})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].sim > scores[j].sim
	})

	if topK > len(scores) {
		topK = len(scores)
	}
	hits := make([]domain.Hit, topK)
	for i := 0; i < topK; i++ {
		hits[i] = domain.Hit{
			DocName:  scores[i].entry.record.DocName,
			Text:     scores[i].entry.record.Text,
			Distance: 1 - scores[i].sim,
		}
	}
	return hits, nil
}

// Count returns the number of stored records.
func (s *LocalStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op: the shared bbolt handle is owned by the catalog.
func (s *LocalStore) Close() error {
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
