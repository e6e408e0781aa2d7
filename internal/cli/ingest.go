package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cyberrag/internal/adapter/chunker"
	"cyberrag/internal/adapter/fs"
	"cyberrag/internal/adapter/ioc"
	"cyberrag/internal/adapter/pdftext"
	"cyberrag/internal/usecase"
)

var ingestKeepFiles bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest advisory documents into the index",
	Long: `Ingest advisory files (PDF or plain text) from the given directory.
Each document has its indicators extracted, is chunked and embedded, and is
inserted into the vector index. Documents already ingested (by content hash)
are skipped, and successfully ingested files are renamed *_processed.* unless
--keep-files is set.

Examples:
  cyberrag ingest .                   # Ingest current directory
  cyberrag ingest /data/advisories    # Ingest specific directory
  cyberrag ingest . --keep-files      # Do not rename ingested files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestKeepFiles, "keep-files", false, "do not rename ingested files to *_processed.*")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	catalog, vectors, err := openStores(cfg, path)
	if err != nil {
		return err
	}
	defer catalog.Close()
	defer vectors.Close()

	renameProcessed := cfg.Ingest.RenameProcessed && !ingestKeepFiles
	ingestUC := usecase.NewIngestUseCase(
		fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes),
		pdftext.New(),
		ioc.NewExtractor(),
		chunker.NewSentenceChunker(cfg.Ingest.ChunkWords),
		embedder,
		vectors,
		catalog,
		newBarReporter(),
		log,
		renameProcessed,
	)

	result, err := ingestUC.Ingest(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Files ingested: %d\n", result.FilesIngested)
	fmt.Printf("  Files skipped:  %d (already ingested)\n", result.FilesSkipped)
	fmt.Printf("  Chunks created: %d\n", result.ChunksCreated)
	return nil
}
