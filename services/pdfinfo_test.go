package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n...")))
	assert.False(t, IsPDF([]byte("PK\x03\x04")))
	assert.False(t, IsPDF([]byte("%PD")))
	assert.False(t, IsPDF(nil))
}
