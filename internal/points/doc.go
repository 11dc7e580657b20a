// Package points holds the leaderboard domain model shared by the fetcher, the
// CSV sink and the export engine.
//
// This package contains:
//   - Page and User: the decoded shape of one upstream leaderboard response
//   - Mode and Target: which leaderboard is exported and the dated output filename
//   - CutoffFilter: the page-level truncation decision (SortedCutoff, ScanCutoff)
//   - Error and Kind: the closed error taxonomy every stage reports through
//
// The upstream API pages leaderboards in fixed slices of PageSize records and
// returns users sorted by descending points.
package points
