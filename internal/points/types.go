package points

import (
	"fmt"
	"path/filepath"
	"time"
)

// Protocol constants for the StreamElements points API.
const (
	// PageSize is the number of records requested per page. The API caps limit at 1000.
	PageSize = 1000

	// DefaultBaseURL is the API root used when no override is configured.
	DefaultBaseURL = "https://api.streamelements.com/kappa/v2"

	// dateLayout renders the run date as DD-MM-YYYY.
	dateLayout = "02-01-2006"
)

// User is a single leaderboard row.
type User struct {
	Username string `json:"username"`
	Points   uint64 `json:"points"`
}

// Page is one decoded response from the leaderboard endpoint.
// Total is the full record count for the query and is repeated on every page.
type Page struct {
	Total uint64
	Users []User
}

// Mode selects which leaderboard is exported.
type Mode string

const (
	// ModeAlltime exports the all-time points leaderboard.
	ModeAlltime Mode = "alltime"
	// ModeTop exports the current top leaderboard.
	ModeTop Mode = "top"
)

// String returns the mode as used in URLs and filenames.
func (m Mode) String() string { return string(m) }

// Target identifies the output of one run. It is computed once at start-up.
type Target struct {
	Mode Mode
	Date time.Time
}

// NewTarget builds a Target for mode on the UTC calendar date of now.
func NewTarget(mode Mode, now time.Time) Target {
	return Target{Mode: mode, Date: now.UTC()}
}

// Filename returns "{DD-MM-YYYY}-{mode}-points.csv".
func (t Target) Filename() string {
	return fmt.Sprintf("%s-%s-points.csv", t.Date.Format(dateLayout), t.Mode)
}

// Path joins the filename onto dir. An empty dir means the working directory.
func (t Target) Path(dir string) string {
	if dir == "" {
		return t.Filename()
	}
	return filepath.Join(dir, t.Filename())
}

// PageCount returns how many pages of PageSize are needed for total records.
// A total of zero still needs the first page.
func PageCount(total uint64) uint64 {
	if total == 0 {
		return 1
	}
	return (total-1)/PageSize + 1
}

// PageOffset returns the record offset of the 1-based page index.
func PageOffset(index uint64) uint64 {
	return (index - 1) * PageSize
}
