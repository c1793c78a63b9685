package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/tagger/internal/config"
	"github.com/lehigh-university-libraries/tagger/internal/export"
	"github.com/lehigh-university-libraries/tagger/internal/images"
	"github.com/lehigh-university-libraries/tagger/internal/keywords"
	"github.com/lehigh-university-libraries/tagger/internal/models"
	"github.com/lehigh-university-libraries/tagger/internal/providers"
	"github.com/lehigh-university-libraries/tagger/internal/storage"
	"github.com/lehigh-university-libraries/tagger/internal/tagging"
	"github.com/spf13/cobra"
)

type processOptions struct {
	provider      string
	model         string
	words         int
	vocabulary    string
	applyKeywords string
	output        string
	zip           bool
	csv           bool
	parquet       bool
	manifest      bool
	clipboard     bool
	pacing        time.Duration
	verbose       bool
}

func newProcessCmd() *cobra.Command {
	var opts processOptions

	cmd := &cobra.Command{
		Use:   "process [files, directories or URLs...]",
		Short: "Name and tag a batch of images and write the exports",
		Long: `Loads every image given on the command line (directories are expanded to
the images they contain), asks the configured LLM for a file name and keywords
for each one in turn, and writes the selected exports to the output directory.

Requests are paced (1.1s apart by default) to stay under provider rate limits.`,
		Example: `  # Tag a folder with Gemini and write a CSV
  tagger process ./photos

  # Prefer a controlled vocabulary, tag everything "travel", write all exports
  tagger process ./photos --vocabulary "beach,harbor,city" --apply-keywords travel \
    --zip --csv --parquet --manifest --output ./out`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(opts.verbose)

			cfg, err := loadConfig(opts.provider, opts.model)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("words") {
				cfg.WordLimit = opts.words
			}
			if cmd.Flags().Changed("pacing") {
				cfg.Pacing = opts.pacing
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			llm, err := newProvider(cfg)
			if err != nil {
				return err
			}
			return runProcess(cmd.Context(), cfg, llm, newPacer(cfg), opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "LLM provider (gemini, openai, or ollama)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name (defaults to provider's default)")
	cmd.Flags().IntVar(&opts.words, "words", providers.DefaultWordLimit, "Maximum words in a suggested name (1-20)")
	cmd.Flags().StringVar(&opts.vocabulary, "vocabulary", "", "Comma separated keywords the model should prefer")
	cmd.Flags().StringVar(&opts.applyKeywords, "apply-keywords", "", "Comma separated keywords added to every named image")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "Directory for the exports")
	cmd.Flags().BoolVar(&opts.zip, "zip", false, "Write a zip of the renamed images")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "Write the keyword table as CSV (default when no export is chosen)")
	cmd.Flags().BoolVar(&opts.parquet, "parquet", false, "Write the keyword table as Parquet")
	cmd.Flags().BoolVar(&opts.manifest, "manifest", false, "Write a YAML manifest of every image")
	cmd.Flags().BoolVar(&opts.clipboard, "clipboard", false, "Copy the suggested names to the clipboard")
	cmd.Flags().DurationVar(&opts.pacing, "pacing", tagging.PacingInterval, "Pause after each request")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	return cmd
}

func runProcess(ctx context.Context, cfg *config.Config, llm providers.Provider, pacer tagging.Pacer, opts processOptions, args []string, out io.Writer) error {
	refs, err := images.ExpandPaths(args)
	if err != nil {
		return err
	}

	fetcher := images.NewFetcher(cfg.MaxUploadBytes)
	collection := storage.NewCollection()
	for _, ref := range refs {
		src, err := fetcher.Load(ctx, ref)
		if err != nil {
			slog.Warn("Skipping image", "ref", ref, "error", err)
			continue
		}
		if err := collection.Add(models.NewItem(src.Name, src.Ext, src.MIMEType, src.Data)); err != nil {
			return err
		}
	}
	if collection.Counts().Total == 0 {
		return fmt.Errorf("no images to process")
	}

	svc := tagging.NewService(llm, pacer)
	report, err := svc.RunBatch(ctx, collection, tagging.Options{WordLimit: cfg.WordLimit, Vocabulary: opts.vocabulary})
	if err != nil {
		return fmt.Errorf("batch run stopped: %w", err)
	}

	if chosen := keywords.Parse(opts.applyKeywords); len(chosen) > 0 {
		changed := collection.ApplyKeywords(chosen)
		slog.Info("Applied keywords", "keywords", chosen, "items", changed)
	}

	items := collection.Snapshot()
	printSummary(out, items, report)

	return writeExports(cfg, llm, opts, items, out)
}

func printSummary(out io.Writer, items []models.Item, report *tagging.BatchReport) {
	for _, item := range items {
		if msg, failed := item.Status.Message(); failed {
			fmt.Fprintf(out, "✗ %s: %s\n", item.OriginalName, msg)
			continue
		}
		fmt.Fprintf(out, "✓ %s → %s %v\n", item.OriginalName, item.FileName(), item.Keywords)
	}
	fmt.Fprintf(out, "\n%d named, %d failed, %d skipped in %s\n",
		report.Succeeded, report.Failed, report.Skipped, report.Duration.Round(time.Millisecond))
}

func writeExports(cfg *config.Config, llm providers.Provider, opts processOptions, items []models.Item, out io.Writer) error {
	if !opts.zip && !opts.csv && !opts.parquet && !opts.manifest && !opts.clipboard {
		opts.csv = true
	}
	if err := os.MkdirAll(opts.output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now()
	exportable := models.CountItems(items).Exportable > 0

	if opts.zip && exportable {
		if err := writeArtifact(out, opts.output, export.ZipName(now), func(w io.Writer) error {
			return export.WriteZip(w, export.ArchiveEntries(items))
		}); err != nil {
			return err
		}
	}
	if opts.csv && exportable {
		if err := writeArtifact(out, opts.output, export.CSVName(now), func(w io.Writer) error {
			return export.WriteCSV(w, export.KeywordRows(items))
		}); err != nil {
			return err
		}
	}
	if opts.parquet && exportable {
		if err := writeArtifact(out, opts.output, export.ParquetName(now), func(w io.Writer) error {
			return export.WriteParquet(w, export.KeywordRows(items))
		}); err != nil {
			return err
		}
	}
	if opts.manifest {
		meta := export.Meta{
			Provider:   llm.Name(),
			Model:      llm.Model(),
			WordLimit:  cfg.WordLimit,
			Vocabulary: opts.vocabulary,
			Generated:  now,
		}
		if err := writeArtifact(out, opts.output, export.ManifestName(now), func(w io.Writer) error {
			return export.WriteManifest(w, meta, items)
		}); err != nil {
			return err
		}
	}
	if opts.clipboard && exportable {
		if _, err := export.CopyToClipboard(items); err != nil {
			slog.Warn("Clipboard export failed", "error", err)
		} else {
			fmt.Fprintln(out, "Copied names to clipboard")
		}
	}
	if !exportable {
		slog.Warn("No image was named, nothing to export")
	}
	return nil
}

func writeArtifact(out io.Writer, dir, name string, write func(io.Writer) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
