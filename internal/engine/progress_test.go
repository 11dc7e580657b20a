package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/pointsexport/internal/engine"
)

func TestProgress(t *testing.T) {
	p := engine.NewProgress()

	assert.Equal(t, 0.0, p.PercentComplete(), "unknown total reports zero")

	p.SetTotal(2500, 3)
	p.AddPage(1000, 1000)
	assert.InDelta(t, 33.33, p.PercentComplete(), 0.01)
	assert.Equal(t, uint64(1), p.FetchedPages)
	assert.Equal(t, uint64(1000), p.FetchedRecords)

	p.AddPage(1000, 400)
	p.AddPage(500, 0)
	assert.Equal(t, 100.0, p.PercentComplete())
	assert.Equal(t, uint64(2500), p.FetchedRecords)
	assert.Equal(t, uint64(1400), p.WrittenRows)
	assert.False(t, p.LastUpdateTime.Before(p.StartTime))

	t.Run("Snapshot", func(t *testing.T) {
		snap := p.Snapshot()
		assert.Equal(t, uint64(2500), snap.TotalRecords)
		assert.Equal(t, uint64(3), snap.TotalPages)
		assert.Equal(t, uint64(3), snap.FetchedPages)
		assert.Equal(t, uint64(1400), snap.WrittenRows)
		assert.Equal(t, 100.0, snap.PercentComplete)

		p.AddPage(1, 1)
		assert.Equal(t, uint64(3), snap.FetchedPages, "snapshot is a copy")
	})

	t.Run("Rate", func(t *testing.T) {
		time.Sleep(5 * time.Millisecond)
		assert.Greater(t, p.RecordsPerSecond(), 0.0)
		assert.Greater(t, p.ElapsedTime(), time.Duration(0))
	})
}
