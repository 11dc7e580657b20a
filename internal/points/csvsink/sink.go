// Package csvsink writes leaderboard rows to a header-less CSV file.
package csvsink

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"

	"github.com/rshade/pointsexport/internal/points"
)

// Sink appends username,points rows to a single file opened for the whole run.
// It is not safe for concurrent use.
type Sink struct {
	path   string
	file   *os.File
	writer *csv.Writer
	closed bool
}

// Open creates or truncates the file at path.
func Open(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, points.NewError(points.KindIO, "open output "+path, err)
	}
	return &Sink{
		path:   path,
		file:   f,
		writer: csv.NewWriter(f),
	}, nil
}

// Write appends one row per user, in order, and flushes so each page is on disk before the next fetch.
func (s *Sink) Write(users []points.User) error {
	if s.closed {
		return points.NewError(points.KindIO, "write "+s.path, os.ErrClosed)
	}

	record := make([]string, 2) //nolint:mnd // username, points
	for _, u := range users {
		record[0] = u.Username
		record[1] = strconv.FormatUint(u.Points, 10)
		if err := s.writer.Write(record); err != nil {
			return points.NewError(points.KindIO, "write "+s.path, err)
		}
	}

	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return points.NewError(points.KindIO, "write "+s.path, err)
	}
	return nil
}

// Close flushes pending rows and releases the file. Calling Close more than once is a no-op.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.writer.Flush()
	flushErr := s.writer.Error()
	closeErr := s.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return points.NewError(points.KindIO, "close "+s.path, err)
	}
	return nil
}
