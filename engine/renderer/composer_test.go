package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenengine/lumen/engine/core"
	"github.com/lumenengine/lumen/engine/math"
)

const epsilon = 1e-5

func TestComposeRejectsNonPositiveAspectRatio(t *testing.T) {
	composer := NewTransformComposer()

	_, err := composer.Compose(1.0, 0)
	assert.ErrorIs(t, err, core.ErrInvalidAspectRatio)

	_, err = composer.Compose(1.0, -1.5)
	assert.ErrorIs(t, err, core.ErrInvalidAspectRatio)
}

func TestComposeIsDeterministic(t *testing.T) {
	composer := NewTransformComposer()

	first, err := composer.Compose(3.217, 16.0/9.0)
	require.NoError(t, err)
	second, err := composer.Compose(3.217, 16.0/9.0)
	require.NoError(t, err)

	// Bit-identical, not merely close: same inputs, same block.
	assert.Equal(t, first, second)
}

func TestComposeModelAtTimeZeroIsIdentity(t *testing.T) {
	composer := NewTransformComposer()

	block, err := composer.Compose(0, 1.0)
	require.NoError(t, err)

	assert.Equal(t, math.NewMat4Identity(), block.Model)
}

func TestComposeModelRotatesAtAngularVelocity(t *testing.T) {
	composer := NewTransformComposer()
	composer.AngularVelocity = 90.0

	// After exactly one second at 90 degrees per second the model is a
	// quarter turn about Z.
	block, err := composer.Compose(1.0, 1.0)
	require.NoError(t, err)

	assert.InDelta(t, 0, float64(block.Model.Data[0]), epsilon)
	assert.InDelta(t, 1, float64(block.Model.Data[1]), epsilon)
	assert.InDelta(t, -1, float64(block.Model.Data[4]), epsilon)
	assert.InDelta(t, 0, float64(block.Model.Data[5]), epsilon)
}

func TestComposeViewMatchesConfiguredCamera(t *testing.T) {
	composer := NewTransformComposer()

	block, err := composer.Compose(0.5, 1.0)
	require.NoError(t, err)

	expected := math.NewMat4LookAt(composer.Eye, composer.Target, composer.Up)
	assert.Equal(t, expected, block.View)
}

func TestComposeProjectionFlipsVerticalScale(t *testing.T) {
	composer := NewTransformComposer()
	aspect := float32(16.0 / 9.0)

	block, err := composer.Compose(0, aspect)
	require.NoError(t, err)

	reference := math.NewMat4Perspective(math.DegToRad(composer.FieldOfView), aspect, composer.NearClip, composer.FarClip)
	assert.Equal(t, -reference.Data[5], block.Projection.Data[5])
	assert.Less(t, block.Projection.Data[5], float32(0))

	// Every other term matches the unflipped projection.
	for i, v := range reference.Data {
		if i == 5 {
			continue
		}
		assert.Equal(t, v, block.Projection.Data[i], "projection term %d", i)
	}
}
