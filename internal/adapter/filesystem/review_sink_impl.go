package filesystem

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/user/review-harvester/internal/entity"
)

var reviewHeader = []string{"Review", "Rating"}

// ReviewSinkImpl appends reviews to a CSV file. Every row is flushed before
// Append returns, so an interrupted run keeps what it already wrote.
type ReviewSinkImpl struct {
	file   *os.File
	writer *csv.Writer
}

// OpenReviewSink opens path for appending, creating it with a header row when
// it is missing or empty.
func OpenReviewSink(path string) (*ReviewSinkImpl, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open reviews %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat reviews %s: %w", path, err)
	}

	sink := &ReviewSinkImpl{file: f, writer: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := sink.writeRow(reviewHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write reviews header: %w", err)
		}
	}
	return sink, nil
}

// Append writes one review row. The film id is not part of the CSV layout.
func (s *ReviewSinkImpl) Append(_ context.Context, _ int, review entity.Review) error {
	if err := s.writeRow([]string{review.CommentText(), review.RatingText()}); err != nil {
		return fmt.Errorf("append review: %w", err)
	}
	return nil
}

func (s *ReviewSinkImpl) writeRow(row []string) error {
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.writer.Flush()
	return s.writer.Error()
}

func (s *ReviewSinkImpl) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
