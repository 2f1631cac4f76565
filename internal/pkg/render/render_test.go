package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFill(t *testing.T) {
	out := Fill("{mention} typed {typed} of {need}", map[string]string{
		"mention": "<@42>",
		"typed":   "5",
		"need":    "9",
	})
	assert.Equal(t, "<@42> typed 5 of 9", out)
}

func TestFill_UnknownMarkerLeftIntact(t *testing.T) {
	out := Fill("hello {name}, see {missing}", map[string]string{"name": "Alice"})
	assert.Equal(t, "hello Alice, see {missing}", out)
}

func TestFill_NoVars(t *testing.T) {
	assert.Equal(t, "plain text", Fill("plain text", nil))
}

func TestFill_RepeatedMarker(t *testing.T) {
	out := Fill("{n} and {n}", map[string]string{"n": "9"})
	assert.Equal(t, "9 and 9", out)
}
