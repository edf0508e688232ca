package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePagination(t *testing.T) {
	p := CalculatePagination(2, 10, 45)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, int64(45), p.Total)
	assert.Equal(t, 5, p.TotalPages)
}

func TestCalculatePaginationExactFit(t *testing.T) {
	p := CalculatePagination(1, 10, 40)
	assert.Equal(t, 4, p.TotalPages)
}

func TestCalculatePaginationClampsInput(t *testing.T) {
	p := CalculatePagination(0, 0, 5)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 10, p.PerPage)

	p = CalculatePagination(-3, 500, 5)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 100, p.PerPage)
}

func TestCalculatePaginationEmpty(t *testing.T) {
	p := CalculatePagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
}
