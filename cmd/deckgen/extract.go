package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/deckgen/deckgen/internal/adapters/secondary/extractor"
)

var (
	// Extract command flags
	extractOutput string
)

// extractCmd represents the text extraction command
var extractCmd = &cobra.Command{
	Use:   "extract <document.pdf>",
	Short: "Extract text from a PDF",
	Long: `Run the PDF text extraction chain and print the result, with the same
page markers and truncation the conversion pipeline sees. Useful for
checking what a document yields before generating a deck from it.

Example:
  deckgen extract report.pdf
  deckgen extract report.pdf -o report.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write the text to a file instead of stdout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	documentPath := args[0]

	finalConfig, err := loadAndValidateConfig(cmd, filepath.Dir(documentPath), nil)
	if err != nil {
		return err
	}

	pdfBytes, err := readDocument(documentPath, finalConfig.Server.GetMaxUploadBytes())
	if err != nil {
		return err
	}

	chain := extractor.NewChainExtractor(finalConfig.Extractor,
		extractor.NewMuPDFStrategy(),
		extractor.NewPDFReaderStrategy(),
	)

	text, err := chain.Extract(cmd.Context(), pdfBytes)
	if err != nil {
		return err
	}

	if extractOutput != "" {
		if err := os.WriteFile(extractOutput, []byte(text.Text), 0o644); err != nil {
			return fmt.Errorf("writing text: %w", err)
		}
		fmt.Printf("Wrote %d characters from %d pages to %s (method: %s)\n", text.Len(), text.Pages, extractOutput, text.Method)
	} else {
		fmt.Println(text.Text)
	}

	// Keep the notice off stdout so piped output stays clean
	if text.Truncated {
		fmt.Fprintf(os.Stderr, "note: extraction stopped at the %d character budget\n", finalConfig.Extractor.GetChunkSize())
	}

	return nil
}
