// Package pipeline runs the export processing stages: load the export,
// transcode every image asset, normalize every category and write the
// category documents.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"trsi/internal/config"
	"trsi/internal/logger"
	"trsi/internal/models"
	"trsi/internal/normalizer"
	"trsi/internal/transcoder"
)

// LockFileName is created in the JSON destination directory while a run is active.
const LockFileName = ".processor.lock"

var (
	// ErrLocked is returned when another run holds the lock.
	ErrLocked = errors.New("another processor run is in progress")
	// ErrCreateDest is returned when an output root cannot be created.
	ErrCreateDest = errors.New("cannot create destination directory")
)

// CategorySummary describes one written category document.
type CategorySummary struct {
	Name    string
	Path    string
	Hash    string
	Skipped []normalizer.Skip
	Items   int
}

// Summary describes a completed run.
type Summary struct {
	Started    time.Time
	RunID      string
	Categories []CategorySummary
	Transcode  transcoder.Report
	Duration   time.Duration
}

// Pipeline wires the processing stages together.
type Pipeline struct {
	cfg        *config.Config
	logger     *logger.Logger
	transcoder *transcoder.Transcoder
	processor  *normalizer.Processor
}

// New creates a pipeline with the WebP transcoder and the default categories.
func New(cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	tr := transcoder.New(
		transcoder.NewWebPEncoder(cfg.Images.Quality),
		transcoder.DefaultSizes(cfg.Images.CardWidth, cfg.Images.PostWidth),
	)

	proc, err := normalizer.NewProcessor(normalizer.DefaultCategories(cfg.Content.MusicFallbackImage)...)
	if err != nil {
		return nil, fmt.Errorf("invalid category table: %w", err)
	}

	return NewWithComponents(cfg, log, tr, proc), nil
}

// NewWithComponents creates a pipeline from prebuilt stages.
func NewWithComponents(cfg *config.Config, log *logger.Logger, tr *transcoder.Transcoder, proc *normalizer.Processor) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     log,
		transcoder: tr,
		processor:  proc,
	}
}

// Run executes every stage in order. It fails when the export cannot be
// loaded, a destination root cannot be created, the lock is held, or an
// output cannot be written; missing images and malformed entries are
// reported in the summary instead.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	log := p.logger.With("run_id", summary.RunID)

	// Stage 1: load
	log.Info("loading export", "path", p.cfg.Paths.Export)

	doc, err := models.Load(p.cfg.Paths.Export)
	if err != nil {
		return nil, err
	}

	log.Info("export loaded", "entries", len(doc.Entries), "assets", len(doc.Assets))

	for _, dir := range []string{p.cfg.Paths.JSONDest, p.cfg.Paths.ImageDest} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCreateDest, dir, err)
		}
	}

	lock := flock.New(filepath.Join(p.cfg.Paths.JSONDest, LockFileName))

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Path())
	}

	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("failed to release lock", "path", lock.Path(), "error", err)
		}
	}()

	// Stage 2: transcode
	summary.Transcode = p.transcode(ctx, doc, log)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: normalize
	log.Info("normalizing entries", "categories", categoryNames(p.processor.Categories()))

	env := normalizer.NewEnv(doc, p.cfg.Content.Locale, p.cfg.Content.ImagePrefix, p.transcoder.Extension())
	results := p.processor.Process(doc, env)

	for _, result := range results {
		for _, skip := range result.Skipped {
			log.Warn("entry skipped", "category", result.Category, "entry_id", skip.EntryID, "title", skip.Title, "error", skip.Err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: write
	categories, err := writeResults(p.cfg.Paths.JSONDest, results)
	if err != nil {
		return nil, err
	}

	for _, c := range categories {
		log.Info("category written", "category", c.Name, "items", c.Items, "skipped", len(c.Skipped), "path", c.Path)
	}

	summary.Categories = categories
	summary.Duration = time.Since(summary.Started)

	log.Info("run complete", "duration", summary.Duration)

	return summary, nil
}

func (p *Pipeline) transcode(ctx context.Context, doc *models.Document, log *logger.Logger) transcoder.Report {
	batch := transcoder.NewBatch(p.transcoder, p.cfg.Paths.AssetSource, p.cfg.Paths.ImageDest, p.cfg.Images.Workers, log)

	for _, asset := range doc.Assets {
		file, ok := asset.File(p.cfg.Content.Locale)
		if !ok {
			log.Debug("asset has no file for locale", "asset_id", asset.ID(), "locale", p.cfg.Content.Locale)
			continue
		}

		batch.Add(ctx, transcoder.Job{AssetID: asset.ID(), FileName: file.FileName})
	}

	report := batch.Wait()

	log.Info("transcoding settled",
		"assets", report.Assets,
		"renditions_written", report.Succeeded,
		"renditions_failed", report.Failed,
		"sources_missing", len(report.Missing),
		"written", humanize.Bytes(uint64(report.BytesWritten)),
		"dest", p.cfg.Paths.ImageDest,
	)

	return report
}

func categoryNames(categories []normalizer.Category) []string {
	names := make([]string, 0, len(categories))
	for _, cat := range categories {
		names = append(names, cat.Plural)
	}

	return names
}
