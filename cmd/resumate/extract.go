package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/melodyxpot/resumate-app/internal/extraction"
	"github.com/melodyxpot/resumate-app/internal/llm"
	"github.com/melodyxpot/resumate-app/internal/observability"
	"github.com/melodyxpot/resumate-app/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a profile dataset from a resume document",
	Long:  "Reads a PDF, DOCX, HTML, Markdown, text or image resume and prints the extracted profile dataset as JSON.",
	RunE:  runExtract,
}

var (
	extractFile      string
	extractMediaType string
	extractOutput    string
)

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to the resume document (required)")
	extractCmd.Flags().StringVar(&extractMediaType, "media-type", "", "Media type of the document (defaults to the file extension)")
	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Write the dataset JSON to this file instead of stdout")
	extractCmd.Flags().String("api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	_ = extractCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	file, err := readExtractFile(extractFile, extractMediaType)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	profile, err := extraction.New(client).Extract(ctx, file)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintProfile(profile)
	}
	return writeJSON(extractOutput, profile)
}

// readExtractFile loads a document into the upload shape used by the API.
func readExtractFile(path, mediaType string) (types.ExtractFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ExtractFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > extraction.MaxDocumentBytes {
		return types.ExtractFile{}, fmt.Errorf("%s is larger than %d bytes", path, extraction.MaxDocumentBytes)
	}

	return types.ExtractFile{
		Data:      base64.StdEncoding.EncodeToString(data),
		MediaType: extraction.ResolveMediaType(mediaType, path),
		Filename:  filepath.Base(path),
	}, nil
}

// writeJSON writes v as indented JSON to path, or stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
