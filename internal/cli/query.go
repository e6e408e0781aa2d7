package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"cyberrag/internal/adapter/ioc"
	"cyberrag/internal/usecase"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve relevant advisory evidence for a question",
	Long: `Embed the query, fetch the most similar advisory chunks, and keep
only documents whose hit count clears the relevance percentile. Prints one
representative excerpt per surviving advisory.

Examples:
  cyberrag query -q "lateral movement over SMB"
  cyberrag query -q "CVE-2024-0001 exploitation" --top-k 50 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of raw hits to fetch (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	catalog, vectors, err := openStores(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer catalog.Close()
	defer vectors.Close()

	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}
	searchUC := usecase.NewSearchUseCase(
		embedder,
		vectors,
		ioc.NewExtractor(),
		topK,
		cfg.Retrieve.RelevancePercentile,
		log,
	)

	evidence, err := searchUC.Search(cmd.Context(), queryText)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(evidence)
	}

	if indicators := searchUC.QueryIndicators(queryText); !indicators.Empty() {
		fmt.Println("Indicators in query:")
		printIndicators(indicators)
		fmt.Println()
	}

	if len(evidence) == 0 {
		fmt.Println("No advisories cleared the relevance threshold.")
		return nil
	}

	names := make([]string, 0, len(evidence))
	for name := range evidence {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("=== %s ===\n%s\n\n", name, evidence[name])
	}
	return nil
}
