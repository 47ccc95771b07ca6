package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBuild(t *testing.T) {
	tmpDir := t.TempDir()

	// Explicit config keeps the test away from the global config search
	configPath := filepath.Join(tmpDir, "custom.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[deck]\nmax_slides = 5\n"), 0644))

	outlinePath := filepath.Join(tmpDir, "outline.md")
	outline := `---
title: Launch Plan
author: Jordan
---

**Slide 1: [Goals]**
* **Title:** Goals
* Ship the beta
* Grow the waitlist

**Slide 2: [Risks]**
* **Title:** Risks
* Vendor dependency
* Hiring timeline
`
	require.NoError(t, os.WriteFile(outlinePath, []byte(outline), 0644))

	outputPath := filepath.Join(tmpDir, "out.pptx")

	oldOutput, oldTitle := buildOutput, buildTitle
	buildOutput, buildTitle = outputPath, ""
	defer func() { buildOutput, buildTitle = oldOutput, oldTitle }()

	cmd := &cobra.Command{Use: "build"}
	cmd.Flags().String("config", configPath, "")
	cmd.SetContext(context.Background())

	require.NoError(t, runBuild(cmd, []string{outlinePath}))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "deck should be a zip container")
	assert.Greater(t, len(data), 1000)
}

func TestReadOutlineFile(t *testing.T) {
	t.Run("reads outline content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "outline.md")
		content := []byte("**Slide 1: Intro**\n- Hello\n")
		require.NoError(t, os.WriteFile(path, content, 0644))

		got, err := readOutlineFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("rejects directory path", func(t *testing.T) {
		_, err := readOutlineFile(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a regular file")
	})

	t.Run("fails when file is missing", func(t *testing.T) {
		_, err := readOutlineFile(filepath.Join(t.TempDir(), "nope.md"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "accessing outline file")
	})
}
