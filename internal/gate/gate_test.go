package gate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"namehaus/internal/gate"
)

func TestGateDefaultsUnpaused(t *testing.T) {
	g := gate.New()
	assert.False(t, g.Paused())
}

func TestGateSet(t *testing.T) {
	g := gate.New()
	g.Set(true)
	assert.True(t, g.Paused())
	g.Set(false)
	assert.False(t, g.Paused())
}
