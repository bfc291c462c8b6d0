package db

import (
	"github.com/uptrace/bun"

	"github.com/scriptum/scriptum/internal/model"
)

// LessonSearcher defines a minimal interface for searching lessons.
// Consumers can depend on this instead of concrete Store implementations.
type LessonSearcher interface {
	SearchLessons(query string) ([]model.Lesson, error)
}

// BunLessonSearcher is a Bun-based implementation of LessonSearcher.
type BunLessonSearcher struct {
	bdb *bun.DB
}

// NewBunLessonSearcher creates a new BunLessonSearcher.
func NewBunLessonSearcher(bdb *bun.DB) LessonSearcher {
	return &BunLessonSearcher{bdb: bdb}
}

// NewLessonSearcherFromStore creates a LessonSearcher from any Store by
// using the underlying Bun DB.
func NewLessonSearcherFromStore(s Store) LessonSearcher {
	return NewBunLessonSearcher(s.BunDB())
}

// SearchLessons delegates to the centralized Bun search helper.
func (s *BunLessonSearcher) SearchLessons(q string) ([]model.Lesson, error) {
	return SearchLessonsBun(s.bdb, q)
}

// DefaultLessonSearcher returns a LessonSearcher backed by the
// package-level store if available. It returns nil when the package
// store is not initialized; callers should handle nil by falling back
// to local filtering.
func DefaultLessonSearcher() LessonSearcher {
	if store == nil {
		return nil
	}
	return NewLessonSearcherFromStore(store)
}

// ActivityWriter defines a minimal interface for recording activity log events.
type ActivityWriter interface {
	LogAction(action string, details string) error
}

// BunActivityWriter is a Bun-based implementation of ActivityWriter.
type BunActivityWriter struct {
	bdb *bun.DB
}

// NewBunActivityWriter creates a new BunActivityWriter.
func NewBunActivityWriter(bdb *bun.DB) ActivityWriter {
	return &BunActivityWriter{bdb: bdb}
}

// NewActivityWriterFromStore creates an ActivityWriter from any Store by
// using the underlying Bun DB.
func NewActivityWriterFromStore(s Store) ActivityWriter {
	return NewBunActivityWriter(s.BunDB())
}

// LogAction delegates to the centralized Bun helper.
func (s *BunActivityWriter) LogAction(action string, details string) error {
	return LogActionBun(s.bdb, action, details)
}

// package-level override used primarily by tests to inject a fake writer.
var defaultActivityWriter ActivityWriter

// DefaultActivityWriter returns an ActivityWriter backed by the
// package-level store if available. It returns nil when the package
// store is not initialized; callers should handle nil by falling back
// to direct helpers.
func DefaultActivityWriter() ActivityWriter {
	if defaultActivityWriter != nil {
		return defaultActivityWriter
	}
	if store == nil {
		return nil
	}
	return NewActivityWriterFromStore(store)
}

// SetDefaultActivityWriter sets a package-level ActivityWriter that will be
// returned by DefaultActivityWriter(). Useful for tests to inject a fake.
func SetDefaultActivityWriter(w ActivityWriter) {
	defaultActivityWriter = w
}

// ClearDefaultActivityWriter clears any previously set package-level writer.
func ClearDefaultActivityWriter() {
	defaultActivityWriter = nil
}
