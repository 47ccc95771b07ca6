package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

var (
	// Generate command flags
	generateOutput    string
	generateTitle     string
	generateProvider  string
	generateModel     string
	generateMaxSlides int
)

// generateCmd represents the one-shot conversion command
var generateCmd = &cobra.Command{
	Use:   "generate <document.pdf>",
	Short: "Convert a PDF into a PowerPoint deck in one shot",
	Long: `Run the full conversion pipeline without the web UI: extract text from
the PDF, generate a slide outline, and render the deck to a .pptx file.

Example:
  deckgen generate report.pdf
  deckgen generate report.pdf -o deck.pptx --title "Q3 Review"`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file (default: derived from the title)")
	generateCmd.Flags().StringVarP(&generateTitle, "title", "t", "", "Presentation title (default: derived from the filename)")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "Generation provider, gemini or openai (overrides config)")
	generateCmd.Flags().StringVar(&generateModel, "model", "", "Generation model (overrides config)")
	generateCmd.Flags().IntVar(&generateMaxSlides, "max-slides", 0, "Maximum content slides (overrides config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	documentPath := args[0]

	flags := make(map[string]interface{})
	if cmd.Flags().Changed("provider") {
		flags["provider"] = generateProvider
	}
	if cmd.Flags().Changed("model") {
		flags["model"] = generateModel
	}
	if cmd.Flags().Changed("max-slides") {
		flags["max-slides"] = generateMaxSlides
	}

	// Local config is looked up next to the document
	finalConfig, err := loadAndValidateConfig(cmd, filepath.Dir(documentPath), flags)
	if err != nil {
		return err
	}

	pdfBytes, err := readDocument(documentPath, finalConfig.Server.GetMaxUploadBytes())
	if err != nil {
		return err
	}

	pipeline, err := buildPipeline(finalConfig)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(generateTitle)
	if title == "" {
		title = entities.SuggestDeckTitle(documentPath)
	}

	ctx := cmd.Context()

	fmt.Printf("Extracting text from %s...\n", filepath.Base(documentPath))
	text, err := pipeline.ExtractText(ctx, pdfBytes)
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %d characters from %d pages via %s", text.Len(), text.Pages, text.Method)
	if text.Truncated {
		fmt.Print(" (truncated)")
	}
	fmt.Println()

	fmt.Printf("Generating outline for %q...\n", title)
	rawOutline, err := pipeline.GenerateOutline(ctx, text, title)
	if err != nil {
		return err
	}
	fmt.Printf("Outline has %d slides\n", len(pipeline.ParseOutline(rawOutline)))

	deck, err := pipeline.BuildDeck(ctx, title, rawOutline)
	if err != nil {
		return err
	}

	outputPath := generateOutput
	if outputPath == "" {
		outputPath = deck.Filename()
	}
	if err := writeDeck(outputPath, deck); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d slides, %d bytes)\n", outputPath, deck.SlideCount, deck.Size())
	return nil
}

// readDocument validates and reads a PDF, enforcing the same size cap as the
// upload endpoint
func readDocument(path string, maxBytes int64) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing document: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("document path is not a regular file: %s", path)
	}
	if fileInfo.Size() > maxBytes {
		return nil, entities.NewUploadTooLargeError(maxBytes >> 20)
	}

	pdfBytes, err := os.ReadFile(path) // #nosec G304 - path validated above
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return pdfBytes, nil
}

// writeDeck writes the assembled .pptx to disk
func writeDeck(path string, deck *entities.Deck) error {
	if err := os.WriteFile(path, deck.Bytes, 0o644); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}
	return nil
}
