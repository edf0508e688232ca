package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateProgressEmptyCourse(t *testing.T) {
	p := UserProgress{ChaptersCompleted: 0, TotalChapters: 0}
	assert.Equal(t, 0.0, p.CalculateProgress())
}

func TestCalculateProgressHalfway(t *testing.T) {
	p := UserProgress{ChaptersCompleted: 5, TotalChapters: 10}
	assert.Equal(t, 50.0, p.CalculateProgress())
}

func TestCalculateProgressComplete(t *testing.T) {
	p := UserProgress{ChaptersCompleted: 3, TotalChapters: 3}
	assert.Equal(t, 100.0, p.CalculateProgress())
}

func TestCalculateProgressThirds(t *testing.T) {
	p := UserProgress{ChaptersCompleted: 1, TotalChapters: 3}
	assert.InDelta(t, 33.33, p.CalculateProgress(), 0.01)
}

func TestAssignmentIsPastDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	noDue := Assignment{}
	assert.False(t, noDue.IsPastDue(now))

	future := now.Add(time.Hour)
	open := Assignment{DueDate: &future}
	assert.False(t, open.IsPastDue(now))

	past := now.Add(-time.Hour)
	closed := Assignment{DueDate: &past}
	assert.True(t, closed.IsPastDue(now))
}
