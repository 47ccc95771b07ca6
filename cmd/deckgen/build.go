package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckgen/deckgen/internal/adapters/secondary/assembler"
	"github.com/deckgen/deckgen/internal/adapters/secondary/parser"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

var (
	// Build command flags
	buildOutput string
	buildTitle  string
)

// buildCmd represents the outline-to-deck command
var buildCmd = &cobra.Command{
	Use:   "build <outline.md>",
	Short: "Build a PowerPoint deck from an outline file",
	Long: `Assemble a deck from an existing outline file without calling the
generation service. The file may open with a YAML frontmatter block
(title, author, font, max_slides); the rest is the slide markup the
generator produces: a bold "**Slide N: [Label]**" header opens each
slide, an "* **Title:** ..." line names it, and every other "* " line
under it becomes a bullet.

Example:
  deckgen build outline.md
  deckgen build outline.md -o deck.pptx --title "Launch Plan"`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output file (default: derived from the title)")
	buildCmd.Flags().StringVarP(&buildTitle, "title", "t", "", "Presentation title (overrides frontmatter)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	outlinePath := args[0]

	finalConfig, err := loadAndValidateConfig(cmd, filepath.Dir(outlinePath), nil)
	if err != nil {
		return err
	}

	content, err := readOutlineFile(outlinePath)
	if err != nil {
		return err
	}

	doc, err := parser.NewOutlineParser().ParseDocument(content)
	if err != nil {
		return fmt.Errorf("parsing outline file: %w", err)
	}

	// Title precedence: flag, then frontmatter, then the configured default
	title := strings.TrimSpace(buildTitle)
	if title == "" {
		title = doc.Title
	}
	if title == "" {
		title = finalConfig.Deck.GetDefaultTitle()
	}

	// Frontmatter overrides the configured deck settings where present
	opts := ports.AssembleOptions{
		MaxSlides:  finalConfig.Deck.GetMaxSlides(),
		Font:       finalConfig.Deck.GetFont(),
		FontSizePt: finalConfig.Deck.GetFontSizePt(),
		Author:     doc.Author,
	}
	if doc.MaxSlides > 0 {
		opts.MaxSlides = doc.MaxSlides
	}
	if doc.Font != "" {
		opts.Font = doc.Font
	}

	deck, err := assembler.NewPPTXAssembler(ports.NewRealClock()).Assemble(cmd.Context(), title, doc.Outline, opts)
	if err != nil {
		return err
	}

	outputPath := buildOutput
	if outputPath == "" {
		outputPath = deck.Filename()
	}
	if err := writeDeck(outputPath, deck); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d slides, %d bytes)\n", outputPath, deck.SlideCount, deck.Size())
	return nil
}

// readOutlineFile validates and reads the outline file
func readOutlineFile(path string) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing outline file: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("outline path is not a regular file: %s", path)
	}

	content, err := os.ReadFile(path) // #nosec G304 - path validated above
	if err != nil {
		return nil, fmt.Errorf("reading outline file: %w", err)
	}
	return content, nil
}
