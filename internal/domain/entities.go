package domain

// IndicatorType identifies one class of indicator of compromise extracted
// from advisory text.
type IndicatorType string

const (
	IndicatorCVE    IndicatorType = "cves"
	IndicatorTID    IndicatorType = "tids"
	IndicatorIPv4   IndicatorType = "ipv4"
	IndicatorIPv6   IndicatorType = "ipv6"
	IndicatorHash   IndicatorType = "hashes"
	IndicatorEmail  IndicatorType = "emails"
	IndicatorURL    IndicatorType = "urls"
	IndicatorDomain IndicatorType = "domains"
	IndicatorPath   IndicatorType = "paths"
	IndicatorPort   IndicatorType = "ports"
)

// IndicatorTypes lists every indicator type in stable output order.
// Iterating this slice instead of ranging over the IndicatorSet map keeps
// flattened output and stored payloads deterministic.
var IndicatorTypes = []IndicatorType{
	IndicatorCVE,
	IndicatorTID,
	IndicatorIPv4,
	IndicatorIPv6,
	IndicatorHash,
	IndicatorEmail,
	IndicatorURL,
	IndicatorDomain,
	IndicatorPath,
	IndicatorPort,
}

// IndicatorSet maps each indicator type to its deduplicated, lexicographically
// sorted values. A complete set carries an entry for every type; absence of
// matches is an empty list, not a missing key.
type IndicatorSet map[IndicatorType][]string

// Values returns the list for the given type, never nil.
func (s IndicatorSet) Values(t IndicatorType) []string {
	if v, ok := s[t]; ok && v != nil {
		return v
	}
	return []string{}
}

// Flatten concatenates all values across types in IndicatorTypes order.
func (s IndicatorSet) Flatten() []string {
	out := []string{}
	for _, t := range IndicatorTypes {
		out = append(out, s[t]...)
	}
	return out
}

// Empty reports whether the set contains no indicators of any type.
func (s IndicatorSet) Empty() bool {
	for _, t := range IndicatorTypes {
		if len(s[t]) > 0 {
			return false
		}
	}
	return true
}

// Document is one ingested advisory. ID is the SHA-256 hex digest of the
// extracted text, so byte-identical re-extractions collide intentionally.
type Document struct {
	ID   string
	Name string
	Text string
}

// Chunk is a contiguous, bounded slice of a document's text, the atomic
// embedding and retrieval unit. Index preserves document order.
type Chunk struct {
	ID      string
	DocID   string
	DocName string
	Index   int
	Text    string
}

// Record is the unit handed to the vector store: one chunk plus the
// document-level indicator set. Indicators are attached uniformly to every
// chunk of their source document, not recomputed per chunk.
type Record struct {
	ID         string
	Text       string
	DocName    string
	DocID      string
	Indicators IndicatorSet
}

// Hit is one similarity match returned by the vector store. The relevance
// filter only uses hit membership per document; Distance is carried through
// as opaque metadata.
type Hit struct {
	DocName  string
	Text     string
	Distance float64
}

// EvidenceMap maps a document name to a single representative chunk text.
// It is the final retrieval artifact handed to answer generation, rebuilt on
// every query and never persisted.
type EvidenceMap map[string]string
