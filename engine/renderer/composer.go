package renderer

import (
	"fmt"

	"github.com/lumenengine/lumen/engine/core"
	"github.com/lumenengine/lumen/engine/math"
)

// TransformComposer computes the per-frame model/view/projection block
// from elapsed time and the current viewport aspect ratio. It holds no
// mutable state; Compose is a pure function of its inputs and the
// configured constants.
type TransformComposer struct {
	// AngularVelocity is the model rotation speed about the Z axis, in
	// degrees per second.
	AngularVelocity float32
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32
	NearClip    float32
	FarClip     float32
	Eye         math.Vec3
	Target      math.Vec3
	Up          math.Vec3
}

func NewTransformComposer() *TransformComposer {
	return &TransformComposer{
		AngularVelocity: 90.0,
		FieldOfView:     45.0,
		NearClip:        0.1,
		FarClip:         10.0,
		Eye:             math.Vec3{X: 2, Y: 2, Z: 2},
		Target:          math.Vec3{X: 0, Y: 0, Z: 0},
		Up:              math.Vec3{X: 0, Y: 0, Z: 1},
	}
}

// Compose builds the transform block for the given elapsed time and
// aspect ratio. A non-positive aspect ratio would produce a degenerate
// projection and is rejected eagerly.
func (tc *TransformComposer) Compose(elapsedSeconds float64, aspectRatio float32) (TransformBlock, error) {
	if aspectRatio <= 0 {
		return TransformBlock{}, fmt.Errorf("compose with aspect ratio %f: %w", aspectRatio, core.ErrInvalidAspectRatio)
	}

	angle := math.DegToRad(tc.AngularVelocity) * float32(elapsedSeconds)
	proj := math.NewMat4Perspective(math.DegToRad(tc.FieldOfView), aspectRatio, tc.NearClip, tc.FarClip)
	// Vulkan clip space Y points down; flip the vertical scale term.
	proj.Data[5] *= -1

	return TransformBlock{
		Model:      math.NewMat4EulerZ(angle),
		View:       math.NewMat4LookAt(tc.Eye, tc.Target, tc.Up),
		Projection: proj,
	}, nil
}
