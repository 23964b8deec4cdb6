package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <file>...",
	Short: "Classify files without moving them",
	Long: `Reads each file, classifies it against the partner table and prints
the outcome and canonical name. Nothing is moved or journalled.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if classifier == nil {
		return unavailable("classification")
	}

	results := make([]domain.ClassificationResult, 0, len(args))
	for _, path := range args {
		raw, err := readInterchange(path)
		if err != nil {
			return err
		}
		results = append(results, classifier.Classify(raw))
	}

	if classifyJSON {
		out := make([]fileJSON, len(results))
		for i, r := range results {
			out[i] = resultJSON(r)
		}
		return outputJSON(cmd, out)
	}

	for i, r := range results {
		if i > 0 {
			cmd.Println()
		}
		printResult(cmd, r)
	}
	return nil
}

func readInterchange(path string) (domain.RawInterchange, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawInterchange{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.RawInterchange{Filename: filepath.Base(path), Content: content}, nil
}

func printResult(cmd *cobra.Command, r domain.ClassificationResult) {
	cmd.Printf("%s %s\n", outcomeStyle(r.Outcome).Render(r.Outcome.String()), r.Filename)
	if r.Dialect != domain.DialectUnknown {
		cmd.Printf("  dialect:  %s\n", r.Dialect)
	}
	if r.SenderID != "" {
		cmd.Printf("  sender:   %s\n", r.SenderID)
	}
	if r.Partner != nil {
		cmd.Printf("  partner:  %s (%s)\n", r.Partner.Prefix, r.Partner.DisplayName())
	}
	if r.MessageType != "" {
		cmd.Printf("  type:     %s\n", r.MessageType)
	}
	if r.DisambiguationCode != "" {
		cmd.Printf("  code:     %s\n", r.DisambiguationCode)
	}
	if r.NewFilename != "" {
		cmd.Printf("  new name: %s\n", r.NewFilename)
	}
	if r.Err != nil {
		cmd.Printf("  reason:   %s\n", mutedStyle.Render(r.Reason()))
	}
}
