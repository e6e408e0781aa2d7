package port

// FileWalker enumerates ingestable files under a root directory in a
// deterministic order.
type FileWalker interface {
	Walk(root string) ([]string, error)
}
