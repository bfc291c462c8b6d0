package db

import "github.com/scriptum/scriptum/internal/model"

// FakeLessonSearcher is a minimal, configurable fake used by tests.
type FakeLessonSearcher struct {
	// Results to return from SearchLessons. If nil, an empty slice is returned.
	Results []model.Lesson
	// Err to return from SearchLessons if non-nil.
	Err error
}

// SearchLessons implements LessonSearcher for the fake.
func (f *FakeLessonSearcher) SearchLessons(query string) ([]model.Lesson, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Results == nil {
		return []model.Lesson{}, nil
	}
	return f.Results, nil
}

// FakeActivityWriter records actions in memory. Used by tests that need
// to assert activity logging without a database.
type FakeActivityWriter struct {
	Actions []string
	Details []string
	Err     error
}

// LogAction implements ActivityWriter for the fake.
func (f *FakeActivityWriter) LogAction(action string, details string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Actions = append(f.Actions, action)
	f.Details = append(f.Details, details)
	return nil
}
