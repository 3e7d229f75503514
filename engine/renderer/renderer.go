package renderer

import (
	"github.com/lumenengine/lumen/engine/core"
)

// Renderer drives the backend once per frame: compose the transform
// block for the current elapsed time, stage it, flush it, hand off to
// submission. It also owns the viewport aspect ratio, refreshed on
// every resize notification before the next compose.
type Renderer struct {
	backend     Backend
	composer    *TransformComposer
	aspectRatio float32
}

func New(backend Backend, composer *TransformComposer) *Renderer {
	return &Renderer{
		backend:  backend,
		composer: composer,
	}
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	r.aspectRatio = float32(appWidth) / float32(appHeight)
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		core.LogError("renderer backend failed to initialize: %s", err)
		return err
	}
	return nil
}

// OnResized refreshes the aspect ratio consumed by the next compose
// call. A minimized window reports a zero extent; the stale ratio is
// kept until a drawable extent arrives.
func (r *Renderer) OnResized(width, height uint16) error {
	if width != 0 && height != 0 {
		r.aspectRatio = float32(width) / float32(height)
	}
	return r.backend.Resized(width, height)
}

// DrawFrame runs one iteration of the frame protocol. Errors abort the
// frame loop; there is no skip-and-continue mode.
func (r *Renderer) DrawFrame(elapsedSeconds, deltaTime float64) error {
	block, err := r.composer.Compose(elapsedSeconds, r.aspectRatio)
	if err != nil {
		return err
	}
	if err := r.backend.BeginFrame(deltaTime); err != nil {
		return err
	}
	if err := r.backend.UpdateTransform(&block); err != nil {
		return err
	}
	return r.backend.EndFrame(deltaTime)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}
