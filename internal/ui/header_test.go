package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(HeaderInfo{Version: "v0.3.0", Tagline: "Network monitor client", Server: "http://localhost:8000"})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "netmon v0.3.0", lines[0])
	assert.Equal(t, "Network monitor client", lines[1])
	assert.Equal(t, "http://localhost:8000", lines[2])
	assert.Equal(t, strings.Repeat("━", HeaderWidth), lines[3])
}

func TestRenderHeaderMinimal(t *testing.T) {
	out := RenderHeader(HeaderInfo{})
	assert.True(t, strings.HasPrefix(out, "netmon\n"))
}
