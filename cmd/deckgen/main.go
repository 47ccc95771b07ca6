package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"

	// BuildDate is set during build
	BuildDate = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "Convert PDF documents into PowerPoint presentations",
	Long: `deckgen turns a PDF document into a concise PowerPoint deck: it extracts
the document text, asks a text-generation service for a slide structure,
and renders the outline into a .pptx file.

Run 'deckgen serve' for the interactive web UI with live preview and
outline editing, or 'deckgen generate' for a one-shot conversion.`,
	Version: Version,
}

func main() {
	// Populate the environment from a .env file before any configuration or
	// API keys are read; a missing file is fine
	_ = godotenv.Load()

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	// Execute root command with context
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file to use instead of the global/local search")
}
