package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/melodyxpot/resumate-app/internal/llm"
	"github.com/melodyxpot/resumate-app/internal/observability"
	"github.com/melodyxpot/resumate-app/internal/pipeline"
	"github.com/melodyxpot/resumate-app/internal/rendering"
	"github.com/melodyxpot/resumate-app/internal/schemas"
	"github.com/melodyxpot/resumate-app/internal/tailoring"
	"github.com/melodyxpot/resumate-app/internal/types"
	rootschemas "github.com/melodyxpot/resumate-app/schemas"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Generate a tailored resume from a profile dataset and a job posting",
	Long: `Generate a tailored resume locally without the API server.

The profile file is a dataset in the same shape the extract command prints.
The job file holds jobTitle, companyName, aboutRole, aboutCompany and requiredSkills.
resume.md and resume.html are written to the output directory.`,
	RunE: runTailor,
}

var (
	tailorProfile string
	tailorJob     string
	tailorOutDir  string
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorProfile, "profile", "p", "", "Path to the profile dataset JSON file (required)")
	tailorCmd.Flags().StringVarP(&tailorJob, "job", "j", "", "Path to the job posting JSON file (required)")
	tailorCmd.Flags().StringVarP(&tailorOutDir, "out", "o", "", "Output directory (required)")
	tailorCmd.Flags().String("api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	_ = tailorCmd.MarkFlagRequired("profile")
	_ = tailorCmd.MarkFlagRequired("job")
	_ = tailorCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	profile, err := loadProfileFile(tailorProfile)
	if err != nil {
		return err
	}
	job, err := loadJobFile(tailorJob)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	renderer, err := rendering.NewMarkdownRenderer()
	if err != nil {
		return err
	}

	runner := &pipeline.Runner{
		Engine:   tailoring.NewEngine(client).WithTemperature(cfg.Temperature),
		Renderer: renderer,
	}

	var printer *observability.Printer
	if cfg.Verbose {
		printer = observability.NewPrinter(os.Stderr)
		printer.PrintJob(job)
	}

	result, err := runner.Run(ctx, pipeline.RunOptions{
		Profile: profile,
		Job:     job,
		OnProgress: func(event pipeline.ProgressEvent) {
			if printer != nil {
				printer.PrintProgress(event)
			}
		},
	})
	if err != nil {
		return err
	}

	if err := writeTailorOutputs(tailorOutDir, result); err != nil {
		return err
	}
	if printer != nil {
		printer.PrintResult(result)
	}

	fmt.Printf("Wrote %s and %s\n",
		filepath.Join(tailorOutDir, "resume.md"),
		filepath.Join(tailorOutDir, "resume.html"))
	return nil
}

// loadProfileFile validates a dataset file against the extraction schema and
// decodes it.
func loadProfileFile(path string) (*types.ProfileDataset, error) {
	if err := schemas.ValidateFile(rootschemas.MustGet(rootschemas.ProfileExtraction), path); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var profile types.ProfileDataset
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return &profile, nil
}

func loadJobFile(path string) (*types.JobPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var job types.JobPosting
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job %s: %w", path, err)
	}
	return &job, nil
}

func writeTailorOutputs(dir string, result *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "resume.md"), []byte(result.Markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "resume.html"), []byte(result.HTML), 0o644); err != nil {
		return fmt.Errorf("failed to write html: %w", err)
	}
	return nil
}
