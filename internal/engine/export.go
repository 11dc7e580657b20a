// Package engine drives a leaderboard export: it walks the paginated API,
// applies the cutoff after every page, and streams survivors into the sink.
//
// The walk is strictly sequential. Page 1 declares the total record count;
// the remaining pages are derived from it and fetched one at a time until the
// pages run out or the cutoff filter signals that the boundary was reached.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/pointsexport/internal/logging"
	"github.com/rshade/pointsexport/internal/points"
	"github.com/rshade/pointsexport/internal/points/csvsink"
)

// PageFetcher retrieves one leaderboard page. A nil offset requests the first page.
type PageFetcher interface {
	FetchPage(ctx context.Context, offset *uint64) (*points.Page, error)
}

// Sink receives surviving rows in order.
type Sink interface {
	Write(users []points.User) error
	Close() error
}

// SinkOpener creates or truncates the output at path.
type SinkOpener func(path string) (Sink, error)

// OpenCSV is the default SinkOpener.
func OpenCSV(path string) (Sink, error) {
	s, err := csvsink.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Request describes one export run.
type Request struct {
	Target    points.Target
	OutputDir string
	// Cutoff is the exclusive point floor. Nil exports everything.
	Cutoff *uint64
}

// Result summarizes a run. On failure it describes what was written before the error.
type Result struct {
	Path    string
	Total   uint64
	Pages   uint64
	Fetches int
	Offsets []*uint64
	Rows    int
	Stopped bool
	Elapsed time.Duration
}

// Exporter runs the pagination pipeline.
type Exporter struct {
	fetcher    PageFetcher
	filter     points.CutoffFilter
	open       SinkOpener
	onProgress ProgressCallback
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithFilter replaces the default points.SortedCutoff.
func WithFilter(f points.CutoffFilter) Option {
	return func(e *Exporter) {
		if f != nil {
			e.filter = f
		}
	}
}

// WithSinkOpener replaces the default CSV sink.
func WithSinkOpener(open SinkOpener) Option {
	return func(e *Exporter) {
		if open != nil {
			e.open = open
		}
	}
}

// WithProgressCallback registers a callback invoked after each page is written.
func WithProgressCallback(cb ProgressCallback) Option {
	return func(e *Exporter) {
		e.onProgress = cb
	}
}

// NewExporter creates an Exporter reading from fetcher.
func NewExporter(fetcher PageFetcher, opts ...Option) *Exporter {
	e := &Exporter{
		fetcher: fetcher,
		filter:  points.SortedCutoff{},
		open:    OpenCSV,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run exports every page of the leaderboard, or the prefix above req.Cutoff.
//
// The first error aborts the run and is returned with the partial Result.
// Rows flushed before the error stay on disk.
//
//nolint:funlen // The page walk reads best as one sequence.
func (e *Exporter) Run(ctx context.Context, req Request) (res *Result, err error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	res = &Result{Path: req.Target.Path(req.OutputDir)}
	defer func() { res.Elapsed = time.Since(start) }()

	sink, err := e.open(res.Path)
	if err != nil {
		return res, err
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "export").
		Str("mode", req.Target.Mode.String()).
		Str("path", res.Path).
		Interface("cutoff", req.Cutoff).
		Msg("starting export")

	progress := NewProgress()

	first, err := e.fetch(ctx, res, nil)
	if err != nil {
		return res, err
	}
	res.Total = first.Total
	res.Pages = points.PageCount(first.Total)
	progress.SetTotal(res.Total, res.Pages)

	stop, err := e.consume(sink, res, progress, first, 1, req.Cutoff)
	if err != nil || stop {
		return res, err
	}

	if first.Total < points.PageSize {
		return res, nil
	}

	for index := uint64(2); index <= res.Pages; index++ {
		offset := points.PageOffset(index)

		page, fetchErr := e.fetch(ctx, res, &offset)
		if fetchErr != nil {
			return res, fetchErr
		}
		if page.Total != first.Total {
			// The first page's total stays authoritative.
			log.Warn().
				Ctx(ctx).
				Str("component", "engine").
				Uint64("offset", offset).
				Uint64("declared_total", first.Total).
				Uint64("page_total", page.Total).
				Msg("leaderboard total changed during pagination")
		}

		stop, err = e.consume(sink, res, progress, page, index, req.Cutoff)
		if err != nil || stop {
			return res, err
		}
	}

	return res, nil
}

func (e *Exporter) fetch(ctx context.Context, res *Result, offset *uint64) (*points.Page, error) {
	res.Fetches++
	res.Offsets = append(res.Offsets, offset)
	return e.fetcher.FetchPage(ctx, offset)
}

// consume filters page, writes the survivors and reports whether pagination must stop.
// An empty page is an error whenever res.Total, the total declared by page 1, is non-zero.
func (e *Exporter) consume(
	sink Sink,
	res *Result,
	progress *Progress,
	page *points.Page,
	index uint64,
	cutoff *uint64,
) (bool, error) {
	if len(page.Users) == 0 && res.Total > 0 {
		return false, points.NewError(points.KindEmptyPage,
			fmt.Sprintf("page %d (offset %d)", index, points.PageOffset(index)),
			fmt.Errorf("no users returned but %d declared", res.Total))
	}

	outcome := e.filter.Evaluate(page.Users, cutoff)
	if err := sink.Write(outcome.Kept); err != nil {
		return false, err
	}

	res.Rows += len(outcome.Kept)
	res.Stopped = outcome.Stop
	progress.AddPage(len(page.Users), len(outcome.Kept))
	if e.onProgress != nil {
		e.onProgress(progress.Snapshot())
	}
	return outcome.Stop, nil
}

// LogResult writes the run summary to logger at info level.
func LogResult(logger *zerolog.Logger, res *Result) {
	if res == nil {
		return
	}
	logger.Info().
		Str("path", res.Path).
		Uint64("total", res.Total).
		Int("fetches", res.Fetches).
		Int("rows", res.Rows).
		Bool("stopped_at_cutoff", res.Stopped).
		Dur("elapsed", res.Elapsed).
		Msg("export complete")
}
