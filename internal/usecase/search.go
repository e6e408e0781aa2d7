package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"cyberrag/internal/adapter/ioc"
	"cyberrag/internal/domain"
	"cyberrag/internal/port"
)

const (
	// DefaultTopK is the number of raw hits fetched per query.
	DefaultTopK = 25

	// DefaultRelevancePercentile is the hit-count percentile a document
	// must reach to survive the relevance filter.
	DefaultRelevancePercentile = 0.90
)

// SearchUseCase answers a query with a relevance-filtered evidence map:
// embed the query, fetch the top-K similar chunks, and keep only documents
// whose hit count reaches the configured percentile.
type SearchUseCase struct {
	embedder   port.Embedder
	vectors    port.VectorStore
	iocs       *ioc.Extractor
	topK       int
	percentile float64
	log        logrus.FieldLogger
}

func NewSearchUseCase(
	embedder port.Embedder,
	vectors port.VectorStore,
	iocs *ioc.Extractor,
	topK int,
	percentile float64,
	log logrus.FieldLogger,
) *SearchUseCase {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if percentile <= 0 || percentile > 1 {
		percentile = DefaultRelevancePercentile
	}
	return &SearchUseCase{
		embedder:   embedder,
		vectors:    vectors,
		iocs:       iocs,
		topK:       topK,
		percentile: percentile,
		log:        log,
	}
}

// Search returns the evidence map for the query. An empty map means no
// document cleared the relevance threshold.
func (u *SearchUseCase) Search(ctx context.Context, query string) (domain.EvidenceMap, error) {
	vector, err := u.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := u.vectors.Query(ctx, vector, u.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}
	u.log.WithField("hits", len(hits)).Debug("raw hits fetched")

	evidence, err := FilterHits(hits, u.percentile)
	if err != nil {
		return nil, err
	}
	u.log.WithField("documents", len(evidence)).Debug("evidence assembled")
	return evidence, nil
}

// QueryIndicators extracts indicators from the query text itself, using the
// same rules applied to documents at ingestion.
func (u *SearchUseCase) QueryIndicators(query string) domain.IndicatorSet {
	return u.iocs.Extract(query)
}

// FilterHits collapses raw hits into the final evidence map. Hits are
// grouped by document, per-document counts are ranked, and only documents
// at or above the requested count percentile survive. The representative
// text for each surviving document is its best-ranked hit. A hit missing
// its document name or text poisons the whole call.
func FilterHits(hits []domain.Hit, percentile float64) (domain.EvidenceMap, error) {
	if len(hits) == 0 {
		return domain.EvidenceMap{}, nil
	}

	counts := make(map[string]int)
	for i, h := range hits {
		if h.DocName == "" || h.Text == "" {
			return nil, fmt.Errorf("hit %d is missing document name or text", i)
		}
		counts[h.DocName]++
	}

	values := make([]float64, 0, len(counts))
	for _, n := range counts {
		values = append(values, float64(n))
	}
	// Truncating the interpolated quantile keeps boundary documents in:
	// a fractional threshold can never exceed every observed count.
	threshold := math.Floor(quantile(values, percentile))

	evidence := make(domain.EvidenceMap)
	for _, h := range hits {
		if float64(counts[h.DocName]) < threshold {
			continue
		}
		if _, ok := evidence[h.DocName]; ok {
			// Hits arrive ordered by similarity; the first one per
			// document is its representative.
			continue
		}
		evidence[h.DocName] = h.Text
	}
	return evidence, nil
}

// quantile computes the q-th quantile of values with linear interpolation
// between closest ranks.
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
