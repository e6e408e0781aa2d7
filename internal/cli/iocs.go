package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cyberrag/internal/adapter/ioc"
	"cyberrag/internal/domain"
)

var iocsJSON bool

var iocsCmd = &cobra.Command{
	Use:   "iocs [text]",
	Short: "Extract indicators of compromise from text",
	Long: `Run the indicator extraction rules over arbitrary text: defanged
syntax is restored, then typed patterns are matched. Reads from stdin when
the argument is "-" or absent.

Examples:
  cyberrag iocs "beacon to hxxps://evil[.]example on port 445"
  cat advisory.txt | cyberrag iocs --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIOCs,
}

func init() {
	rootCmd.AddCommand(iocsCmd)
	iocsCmd.Flags().BoolVar(&iocsJSON, "json", false, "output as JSON")
}

func runIOCs(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 && args[0] != "-" {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	set := ioc.NewExtractor().Extract(text)

	if iocsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}

	if set.Empty() {
		fmt.Println("No indicators found.")
		return nil
	}
	printIndicators(set)
	return nil
}

// printIndicators writes one line per indicator type that has values, in
// stable type order.
func printIndicators(set domain.IndicatorSet) {
	for _, typ := range domain.IndicatorTypes {
		values := set.Values(typ)
		if len(values) == 0 {
			continue
		}
		fmt.Printf("  %-8s %s\n", string(typ)+":", strings.Join(values, ", "))
	}
}
