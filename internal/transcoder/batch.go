package transcoder

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"trsi/internal/assets"
	"trsi/internal/logger"
)

// Job identifies one asset to transcode by its export ID and file name.
type Job struct {
	AssetID  string
	FileName string
}

// Report aggregates the outcomes of a batch.
type Report struct {
	Outcomes     []Outcome
	Missing      []Job
	Assets       int
	Succeeded    int
	Failed       int
	BytesWritten int64
}

// Failures returns the outcomes that did not produce a file.
func (r Report) Failures() []Outcome {
	var failed []Outcome

	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}

	return failed
}

// Batch runs transcoding jobs concurrently and joins them in Wait.
// A failing job never cancels the others.
type Batch struct {
	transcoder *Transcoder
	logger     *logger.Logger
	sourceRoot string
	destRoot   string
	group      errgroup.Group
	report     Report
	mu         sync.Mutex
}

// NewBatch creates a batch locating sources under sourceRoot and writing
// renditions under destRoot, running at most workers jobs at once
// (workers <= 0 means unbounded).
func NewBatch(t *Transcoder, sourceRoot, destRoot string, workers int, log *logger.Logger) *Batch {
	b := &Batch{
		transcoder: t,
		logger:     log,
		sourceRoot: sourceRoot,
		destRoot:   destRoot,
	}

	if workers > 0 {
		b.group.SetLimit(workers)
	}

	return b
}

// Add schedules job. It blocks while the worker limit is reached.
func (b *Batch) Add(ctx context.Context, job Job) {
	b.mu.Lock()
	b.report.Assets++
	b.mu.Unlock()

	b.group.Go(func() error {
		b.run(ctx, job)
		return nil
	})
}

func (b *Batch) run(ctx context.Context, job Job) {
	src, ok := assets.Locate(b.sourceRoot, job.FileName).Path()
	if !ok {
		b.logger.Warn("source image not found", "asset_id", job.AssetID, "file", job.FileName, "search_root", b.sourceRoot)

		b.mu.Lock()
		b.report.Missing = append(b.report.Missing, job)
		b.mu.Unlock()

		return
	}

	outcomes := b.transcoder.Transcode(ctx, job, src, b.destRoot)

	for _, o := range outcomes {
		if o.OK() {
			b.logger.Debug("rendition written", "asset_id", o.AssetID, "rendition", o.Rendition, "dest", o.Dest, "bytes", o.Bytes)
		} else {
			b.logger.Warn("rendition failed", "asset_id", o.AssetID, "rendition", o.Rendition, "source", o.Source, "error", o.Err)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, o := range outcomes {
		if o.OK() {
			b.report.Succeeded++
			b.report.BytesWritten += o.Bytes
		} else {
			b.report.Failed++
		}
	}

	b.report.Outcomes = append(b.report.Outcomes, outcomes...)
}

// Wait blocks until every scheduled job has settled and returns the report,
// sorted by asset ID and rendition order.
func (b *Batch) Wait() Report {
	_ = b.group.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()

	report := b.report
	report.Outcomes = slices.Clone(b.report.Outcomes)
	report.Missing = slices.Clone(b.report.Missing)

	slices.SortStableFunc(report.Outcomes, func(a, c Outcome) int {
		return cmp.Or(
			cmp.Compare(a.AssetID, c.AssetID),
			cmp.Compare(renditionOrder(a.Rendition), renditionOrder(c.Rendition)),
		)
	})
	slices.SortStableFunc(report.Missing, func(a, c Job) int {
		return cmp.Compare(a.AssetID, c.AssetID)
	})

	return report
}

func renditionOrder(r assets.Rendition) int {
	if i := slices.Index(assets.Renditions, r); i >= 0 {
		return i
	}

	return len(assets.Renditions)
}
