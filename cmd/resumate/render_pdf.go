package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/melodyxpot/resumate-app/internal/rendering"
)

var renderPDFCmd = &cobra.Command{
	Use:   "render-pdf",
	Short: "Print an HTML resume to PDF with headless Chrome",
	RunE:  runRenderPDF,
}

var (
	renderPDFInput   string
	renderPDFOutput  string
	renderPDFTimeout time.Duration
)

func init() {
	renderPDFCmd.Flags().StringVar(&renderPDFInput, "html", "", "Path to the resume HTML file (required)")
	renderPDFCmd.Flags().StringVarP(&renderPDFOutput, "out", "o", "resume.pdf", "Output PDF path")
	renderPDFCmd.Flags().String("chrome-path", "", "Chrome executable (defaults to CHROME_PATH or PATH lookup)")
	renderPDFCmd.Flags().DurationVar(&renderPDFTimeout, "timeout", 60*time.Second, "Maximum time to wait for the browser")
	_ = renderPDFCmd.MarkFlagRequired("html")
	rootCmd.AddCommand(renderPDFCmd)
}

func runRenderPDF(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	html, err := os.ReadFile(renderPDFInput)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", renderPDFInput, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), renderPDFTimeout)
	defer cancel()

	pdf, err := rendering.NewPDFRenderer(cfg.ChromePath).RenderPDF(ctx, string(html))
	if err != nil {
		return err
	}

	if err := os.WriteFile(renderPDFOutput, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderPDFOutput, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", renderPDFOutput, len(pdf))
	return nil
}
