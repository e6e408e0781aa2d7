package port

// Chunker splits document text into retrieval-sized pieces. Implementations
// must preserve document order and never return empty chunks.
type Chunker interface {
	Chunk(text string) []string
}
