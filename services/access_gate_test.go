package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestGate() *AccessGate {
	return NewAccessGate(func(candidate string) bool { return candidate == "hunter2" })
}

func TestAccessGateAuthorize(t *testing.T) {
	gate := newTestGate()

	assert.False(t, gate.Elevated("s1"))

	assert.NoError(t, gate.Authorize("s1", "hunter2"))
	assert.True(t, gate.Elevated("s1"))
	assert.False(t, gate.Elevated("s2"), "elevation is per session")
}

func TestAccessGateAuthorizeIdempotent(t *testing.T) {
	gate := newTestGate()

	assert.NoError(t, gate.Authorize("s1", "hunter2"))
	assert.NoError(t, gate.Authorize("s1", "hunter2"))
	assert.True(t, gate.Elevated("s1"), "second authorize must not toggle")
}

func TestAccessGateBadSecret(t *testing.T) {
	gate := newTestGate()

	assert.ErrorIs(t, gate.Authorize("s1", "wrong"), ErrBadSecret)
	assert.False(t, gate.Elevated("s1"))

	// A failed attempt never demotes an elevated session.
	assert.NoError(t, gate.Authorize("s1", "hunter2"))
	assert.ErrorIs(t, gate.Authorize("s1", "wrong"), ErrBadSecret)
	assert.True(t, gate.Elevated("s1"))
}

func TestAccessGateReset(t *testing.T) {
	gate := newTestGate()

	assert.NoError(t, gate.Authorize("s1", "hunter2"))
	gate.Reset("s1")
	assert.False(t, gate.Elevated("s1"))

	// Resetting an unknown session is harmless.
	gate.Reset("never-seen")
}
