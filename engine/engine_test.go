package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenengine/lumen/engine/core"
)

func TestFireConfigReloadedUpdatesComposer(t *testing.T) {
	setupEvents(t)

	cfg := DefaultApplicationConfig()
	e, err := New(cfg, "")
	require.NoError(t, err)
	require.True(t, core.EventRegister(core.EVENT_CODE_CONFIG_RELOADED, e, e.onConfigReloaded))

	reloaded := DefaultApplicationConfig()
	reloaded.FieldOfView = 60.0
	reloaded.AngularVelocity = 120.0
	reloaded.NearClip = 0.25
	reloaded.FarClip = 50.0

	// Fired on the calling thread, the way the frame loop delivers a
	// drained reload between frames.
	e.fireConfigReloaded(reloaded)

	assert.Equal(t, float32(60.0), e.composer.FieldOfView)
	assert.Equal(t, float32(120.0), e.composer.AngularVelocity)
	assert.Equal(t, float32(0.25), e.composer.NearClip)
	assert.Equal(t, float32(50.0), e.composer.FarClip)
}

func TestRequestCloseSignalsQuit(t *testing.T) {
	e, err := New(DefaultApplicationConfig(), "")
	require.NoError(t, err)

	e.RequestClose()
	// Safe to repeat from any goroutine.
	e.RequestClose()

	select {
	case <-e.quit:
	default:
		t.Fatal("quit channel not closed after RequestClose")
	}
}
