package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"cyberrag/internal/adapter/ioc"
	"cyberrag/internal/usecase"
)

var (
	askQuestion     string
	askShowEvidence bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question and get an answer grounded in ingested advisories",
	Long: `Retrieve relevant advisory evidence for the question and generate an
answer with the configured language model. Claims in the answer cite the
advisory they came from; when no advisory is relevant the tool refuses
instead of speculating.

Examples:
  cyberrag ask -q "Which CVEs are actively exploited?"
  cyberrag ask -q "What ports did the actor use?" --show-evidence`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.Flags().BoolVar(&askShowEvidence, "show-evidence", false, "print the evidence excerpts after the answer")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	model, err := newLLM(cfg)
	if err != nil {
		return err
	}

	catalog, vectors, err := openStores(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer catalog.Close()
	defer vectors.Close()

	searchUC := usecase.NewSearchUseCase(
		embedder,
		vectors,
		ioc.NewExtractor(),
		cfg.Retrieve.TopK,
		cfg.Retrieve.RelevancePercentile,
		log,
	)
	answerUC := usecase.NewAnswerUseCase(searchUC, model, log)

	answer, evidence, err := answerUC.Answer(cmd.Context(), askQuestion)
	if err != nil {
		return fmt.Errorf("answer generation failed: %w", err)
	}

	fmt.Println(answer)

	if askShowEvidence && len(evidence) > 0 {
		names := make([]string, 0, len(evidence))
		for name := range evidence {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Printf("\nEvidence:\n")
		for _, name := range names {
			fmt.Printf("=== %s ===\n%s\n\n", name, evidence[name])
		}
	}
	return nil
}
