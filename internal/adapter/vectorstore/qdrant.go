package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cyberrag/internal/domain"
)

// QdrantStore talks to a Qdrant server over its REST API.
type QdrantStore struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

func NewQdrantStore(baseURL, apiKey, collection string) *QdrantStore {
	if baseURL == "" {
		baseURL = "http://localhost:6333"
	}
	return &QdrantStore{
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type qdrantPoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type qdrantSearchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type qdrantSearchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// EnsureCollection creates the collection with a cosine-distance vector
// index. An already-existing collection is not an error.
func (s *QdrantStore) EnsureCollection(ctx context.Context, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	status, resp, err := s.do(ctx, http.MethodPut, "/collections/"+s.collection, body)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	if status == http.StatusConflict {
		return nil
	}
	if status != http.StatusOK {
		return fmt.Errorf("create collection returned status %d: %s", status, resp)
	}
	return nil
}

// Insert upserts one record. The payload mirrors the stored record schema:
// chunk text, document identity, the flattened indicator list, and each typed
// indicator list under its own key.
func (s *QdrantStore) Insert(ctx context.Context, rec domain.Record, vector []float32) error {
	payload := map[string]any{
		"text":     rec.Text,
		"doc_name": rec.DocName,
		"doc_id":   rec.DocID,
		"iocs":     rec.Indicators.Flatten(),
	}
	for _, typ := range domain.IndicatorTypes {
		payload[string(typ)] = rec.Indicators.Values(typ)
	}

	body := map[string]any{
		"points": []qdrantPoint{{
			ID:      rec.ID,
			Vector:  vector,
			Payload: payload,
		}},
	}
	status, resp, err := s.do(ctx, http.MethodPut, "/collections/"+s.collection+"/points?wait=true", body)
	if err != nil {
		return fmt.Errorf("failed to insert point: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("insert returned status %d: %s", status, resp)
	}
	return nil
}

// Query runs a similarity search. Qdrant reports cosine similarity as the
// score; hits carry it converted to a distance so smaller means closer.
func (s *QdrantStore) Query(ctx context.Context, vector []float32, topK int) ([]domain.Hit, error) {
	body := qdrantSearchRequest{
		Vector:      vector,
		Limit:       topK,
		WithPayload: true,
	}
	status, resp, err := s.do(ctx, http.MethodPost, "/collections/"+s.collection+"/points/search", body)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d: %s", status, resp)
	}

	var parsed qdrantSearchResponse
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	hits := make([]domain.Hit, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		hit := domain.Hit{Distance: 1 - r.Score}
		if v, ok := r.Payload["doc_name"].(string); ok {
			hit.DocName = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			hit.Text = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (s *QdrantStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *QdrantStore) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
