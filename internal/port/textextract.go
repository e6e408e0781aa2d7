package port

// TextExtractor turns a source file into plain text. Extraction failures are
// fatal to the caller; there is no partial-success mode.
type TextExtractor interface {
	Extract(path string) (string, error)
}
