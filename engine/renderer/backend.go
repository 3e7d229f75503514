package renderer

// Backend is the device-facing half of the renderer. Swapchain
// management, pipeline-object construction, shader modules and draw
// submission live with downstream collaborators; this surface covers
// device setup, frame pacing and transform synchronization.
type Backend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint16) error
	// BeginFrame waits until the current frame slot's previously
	// submitted device work has completed, so host writes for this
	// frame can never race an in-flight device read.
	BeginFrame(deltaTime float64) error
	// UpdateTransform stages the block into the current frame slot's
	// host region and flushes it to the device-local region.
	UpdateTransform(block *TransformBlock) error
	// EndFrame advances to the next frame-in-flight slot.
	EndFrame(deltaTime float64) error
}
