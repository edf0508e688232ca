package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	key := GenerateKey("documents/7", "syllabus.pdf")
	assert.True(t, strings.HasPrefix(key, "documents/7/"))
	assert.True(t, strings.HasSuffix(key, "_syllabus.pdf"))
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", GetContentType("notes.pdf"))
	assert.Equal(t, "image/jpeg", GetContentType("photo.jpeg"))
	assert.Equal(t, "text/markdown", GetContentType("README.md"))
	assert.Equal(t, "application/octet-stream", GetContentType("binary.bin"))
}
