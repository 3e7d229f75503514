package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenengine/lumen/engine/core"
)

// recordingBackend captures every call the frontend makes, so tests can
// assert on the composed blocks without a device.
type recordingBackend struct {
	initialized bool
	resizes     [][2]uint16
	blocks      []TransformBlock
	begun       int
	ended       int
}

func (b *recordingBackend) Initialize(appName string, appWidth, appHeight uint32) error {
	b.initialized = true
	return nil
}

func (b *recordingBackend) Shutdown() error { return nil }

func (b *recordingBackend) Resized(width, height uint16) error {
	b.resizes = append(b.resizes, [2]uint16{width, height})
	return nil
}

func (b *recordingBackend) BeginFrame(deltaTime float64) error {
	b.begun++
	return nil
}

func (b *recordingBackend) UpdateTransform(block *TransformBlock) error {
	b.blocks = append(b.blocks, *block)
	return nil
}

func (b *recordingBackend) EndFrame(deltaTime float64) error {
	b.ended++
	return nil
}

func TestDrawFrameComposesWithInitialAspect(t *testing.T) {
	backend := &recordingBackend{}
	composer := NewTransformComposer()
	r := New(backend, composer)

	require.NoError(t, r.Initialize("test", 1600, 900))
	require.True(t, backend.initialized)
	require.NoError(t, r.DrawFrame(0.5, 0.016))

	require.Len(t, backend.blocks, 1)
	expected, err := composer.Compose(0.5, float32(1600)/float32(900))
	require.NoError(t, err)
	assert.Equal(t, expected, backend.blocks[0])
	assert.Equal(t, 1, backend.begun)
	assert.Equal(t, 1, backend.ended)
}

func TestResizeChangesComposedAspect(t *testing.T) {
	backend := &recordingBackend{}
	composer := NewTransformComposer()
	r := New(backend, composer)

	require.NoError(t, r.Initialize("test", 1600, 900))
	require.NoError(t, r.OnResized(800, 800))
	require.NoError(t, r.DrawFrame(1.0, 0.016))

	// The frame after a resize composes with the new ratio.
	require.Len(t, backend.blocks, 1)
	expected, err := composer.Compose(1.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, expected, backend.blocks[0])

	// The extent was forwarded to the backend.
	require.Len(t, backend.resizes, 1)
	assert.Equal(t, [2]uint16{800, 800}, backend.resizes[0])
}

func TestZeroExtentResizeKeepsPreviousAspect(t *testing.T) {
	backend := &recordingBackend{}
	composer := NewTransformComposer()
	r := New(backend, composer)

	require.NoError(t, r.Initialize("test", 800, 600))
	require.NoError(t, r.OnResized(0, 0))
	require.NoError(t, r.DrawFrame(2.0, 0.016))

	// A minimized window must not poison the projection; the last
	// drawable ratio stays in effect.
	require.Len(t, backend.blocks, 1)
	expected, err := composer.Compose(2.0, float32(800)/float32(600))
	require.NoError(t, err)
	assert.Equal(t, expected, backend.blocks[0])

	// The zero extent is still forwarded so the backend can suspend.
	require.Len(t, backend.resizes, 1)
	assert.Equal(t, [2]uint16{0, 0}, backend.resizes[0])
}

func TestDrawFrameWithoutInitializeFails(t *testing.T) {
	backend := &recordingBackend{}
	r := New(backend, NewTransformComposer())

	err := r.DrawFrame(0, 0.016)
	assert.ErrorIs(t, err, core.ErrInvalidAspectRatio)
	assert.Zero(t, backend.begun)
	assert.Empty(t, backend.blocks)
}
