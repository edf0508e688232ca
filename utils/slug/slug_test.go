package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	assert.Equal(t, "hello-world", Make("Hello, World!"))
	assert.Equal(t, "go-101-intro", Make("Go 101: Intro"))
	assert.Equal(t, "already-a-slug", Make("already-a-slug"))
	assert.Equal(t, "trims-edges", Make("  ---Trims Edges---  "))
	assert.Equal(t, "", Make("!!!"))
}

func TestWithSuffix(t *testing.T) {
	out := WithSuffix("base")
	assert.True(t, strings.HasPrefix(out, "base-"))
	assert.Len(t, out, len("base-")+4)
}
