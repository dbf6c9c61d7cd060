package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jobpulse/analyzer/internal/bootstrap"
	"github.com/jobpulse/analyzer/internal/config"
	"github.com/jobpulse/analyzer/internal/domain"
	"github.com/jobpulse/analyzer/internal/export"
	"github.com/jobpulse/analyzer/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	keyword := flag.String("keyword", "python developer", "Search keyword")
	location := flag.String("location", "Lisboa", "Search location")
	pages := flag.Int("pages", 1, "Number of result pages to fetch")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Server.Debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *keyword, *location, *pages); err != nil {
		logger.Error("Run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, keyword, location string, pages int) error {
	renderers, err := bootstrap.Charts(cfg)
	if err != nil {
		return err
	}

	outputDir, err := createOutputDir(cfg.Output.Dir, time.Now())
	if err != nil {
		return err
	}
	logger.Info("Outputs will be saved", zap.String("dir", outputDir))

	linkedin, closeFetcher := bootstrap.Scraper(cfg, logger.Get())
	defer closeFetcher()

	session, err := linkedin.Search(ctx, keyword, location, pages)
	if err != nil {
		// keep whatever was collected before the interruption
		logger.Warn("Search interrupted", zap.Error(err))
	}
	fmt.Printf("\nFound %d jobs\n", len(session.Postings))
	printPreview(os.Stdout, session.Postings, 5)

	csvPath := filepath.Join(outputDir, "jobs_data.csv")
	if err := writeFile(csvPath, func(w io.Writer) error {
		return export.WriteCSV(w, session.Postings)
	}); err != nil {
		return err
	}
	fmt.Printf("\nData saved to: %s\n", csvPath)

	summary := bootstrap.Aggregator(cfg).Summarize(session.Postings)

	for _, name := range export.ChartNames {
		path := filepath.Join(outputDir, "visualization_"+name+".html")
		render := renderers[name]
		if err := writeFile(path, func(w io.Writer) error { return render(w, summary) }); err != nil {
			return err
		}
		fmt.Printf("Visualization '%s' saved to: %s\n", name, path)
	}

	fmt.Printf("\nAll outputs saved to: %s\n", outputDir)
	return nil
}

// createOutputDir makes <root>/<YYYYMMDD_HHMMSS>.
func createOutputDir(root string, now time.Time) (string, error) {
	dir := filepath.Join(root, now.Format("20060102_150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// writeFile renders into a temporary file and renames it into place, so an
// error never leaves a half-written artifact at path.
func writeFile(path string, render func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := render(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

func printPreview(w io.Writer, postings []domain.Posting, n int) {
	if len(postings) < n {
		n = len(postings)
	}
	if n == 0 {
		return
	}
	fmt.Fprintln(w, "\nFirst rows:")
	for _, p := range postings[:n] {
		fmt.Fprintf(w, "  %-40.40s  %-25.25s  %-25.25s  %4.1fh\n", p.Title, p.Employer, p.Location, p.HoursAgo)
	}
}
