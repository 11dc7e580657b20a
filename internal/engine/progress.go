package engine

import (
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks how far an export has walked the leaderboard.
// TotalRecords and TotalPages are unknown (zero) until the first page arrives.
type Progress struct {
	// TotalRecords is the record count declared by the first page.
	TotalRecords uint64

	// TotalPages is the number of pages the declared total spans.
	TotalPages uint64

	// FetchedPages is the number of pages received so far.
	FetchedPages uint64

	// FetchedRecords is the number of users received so far, before filtering.
	FetchedRecords uint64

	// WrittenRows is the number of rows handed to the sink.
	WrittenRows uint64

	// StartTime is when the export started.
	StartTime time.Time

	// LastUpdateTime is when progress was last updated.
	LastUpdateTime time.Time
}

// NewProgress creates a progress tracker starting now.
func NewProgress() *Progress {
	now := time.Now()
	return &Progress{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// SetTotal records the declared total and derives the page count.
func (p *Progress) SetTotal(total, pages uint64) {
	p.TotalRecords = total
	p.TotalPages = pages
}

// AddPage records one fetched page and the rows written from it.
func (p *Progress) AddPage(fetched, written int) {
	p.FetchedPages++
	p.FetchedRecords += uint64(fetched)
	p.WrittenRows += uint64(written)
	p.LastUpdateTime = time.Now()
}

// PercentComplete returns the share of declared pages fetched (0-100).
func (p *Progress) PercentComplete() float64 {
	if p.TotalPages == 0 {
		return 0
	}
	return (float64(p.FetchedPages) / float64(p.TotalPages)) * percentMultiplier
}

// ElapsedTime returns the time elapsed since the export started.
func (p *Progress) ElapsedTime() time.Duration {
	return time.Since(p.StartTime)
}

// RecordsPerSecond returns the fetch rate in records per second.
func (p *Progress) RecordsPerSecond() float64 {
	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.FetchedRecords) / elapsed
}

// Snapshot returns a copy of the current progress state.
func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		TotalRecords:    p.TotalRecords,
		TotalPages:      p.TotalPages,
		FetchedPages:    p.FetchedPages,
		FetchedRecords:  p.FetchedRecords,
		WrittenRows:     p.WrittenRows,
		StartTime:       p.StartTime,
		LastUpdateTime:  p.LastUpdateTime,
		PercentComplete: p.PercentComplete(),
		ElapsedTime:     p.ElapsedTime(),
	}
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalRecords    uint64
	TotalPages      uint64
	FetchedPages    uint64
	FetchedRecords  uint64
	WrittenRows     uint64
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	ElapsedTime     time.Duration
}

// ProgressCallback is invoked after every page has been written.
type ProgressCallback func(snapshot ProgressSnapshot)
