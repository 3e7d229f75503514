package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenengine/lumen/engine/core"
)

func TestSchemaAddBinding(t *testing.T) {
	schema := NewDescriptorBindingSchema()

	require.NoError(t, schema.AddBinding(0, ResourceKindUniformBlock, 1, vk.ShaderStageFlags(vk.ShaderStageVertexBit)))
	require.NoError(t, schema.AddBinding(1, ResourceKindUniformBlock, 1, vk.ShaderStageFlags(vk.ShaderStageFragmentBit)))

	bindings := schema.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, uint32(0), bindings[0].SlotIndex)
	assert.Equal(t, uint32(1), bindings[1].SlotIndex)
}

func TestSchemaRejectsDuplicateSlot(t *testing.T) {
	schema := NewDescriptorBindingSchema()

	require.NoError(t, schema.AddBinding(3, ResourceKindUniformBlock, 1, vk.ShaderStageFlags(vk.ShaderStageVertexBit)))

	err := schema.AddBinding(3, ResourceKindUniformBlock, 2, vk.ShaderStageFlags(vk.ShaderStageFragmentBit))
	assert.ErrorIs(t, err, core.ErrDuplicateSlot)

	// The original declaration is untouched.
	bindings := schema.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, uint32(1), bindings[0].ElementCount)
	assert.Equal(t, vk.ShaderStageFlags(vk.ShaderStageVertexBit), bindings[0].VisibleStages)
}

func TestSchemaRejectsZeroElementCount(t *testing.T) {
	schema := NewDescriptorBindingSchema()

	err := schema.AddBinding(0, ResourceKindUniformBlock, 0, vk.ShaderStageFlags(vk.ShaderStageVertexBit))
	assert.Error(t, err)
	assert.Empty(t, schema.Bindings())
}

func TestSchemaRejectsMutationAfterFinalize(t *testing.T) {
	schema := NewDescriptorBindingSchema()
	require.NoError(t, schema.AddBinding(0, ResourceKindUniformBlock, 1, vk.ShaderStageFlags(vk.ShaderStageVertexBit)))

	layout := schema.Finalize()
	before := layout.Bindings()

	err := schema.AddBinding(1, ResourceKindUniformBlock, 1, vk.ShaderStageFlags(vk.ShaderStageVertexBit))
	assert.ErrorIs(t, err, core.ErrAlreadyFinalized)

	// The rejected mutation leaves the finalized layout untouched.
	assert.Equal(t, before, layout.Bindings())
}

func TestSchemaFinalizeSnapshotIsIsolated(t *testing.T) {
	schema := NewDescriptorBindingSchema()
	require.NoError(t, schema.AddBinding(0, ResourceKindUniformBlock, 1, vk.ShaderStageFlags(vk.ShaderStageVertexBit)))

	layout := schema.Finalize()
	bindings := layout.Bindings()
	require.Len(t, bindings, 1)

	// Mutating the returned slice does not reach the layout.
	bindings[0].SlotIndex = 99
	assert.Equal(t, uint32(0), layout.Bindings()[0].SlotIndex)
}

func TestSchemaFinalizeIsIdempotent(t *testing.T) {
	schema := NewDescriptorBindingSchema()
	require.NoError(t, schema.AddBinding(0, ResourceKindUniformBlock, 1, vk.ShaderStageFlags(vk.ShaderStageVertexBit)))

	first := schema.Finalize()
	second := schema.Finalize()
	assert.Equal(t, first.Bindings(), second.Bindings())
}

func TestLayoutDescriptorSetLayoutBindings(t *testing.T) {
	schema := NewDescriptorBindingSchema()
	require.NoError(t, schema.AddBinding(2, ResourceKindUniformBlock, 4, vk.ShaderStageFlags(vk.ShaderStageVertexBit)))

	layout := schema.Finalize()
	out := layout.descriptorSetLayoutBindings()
	require.Len(t, out, 1)
	assert.Equal(t, uint32(2), out[0].Binding)
	assert.Equal(t, vk.DescriptorTypeUniformBuffer, out[0].DescriptorType)
	assert.Equal(t, uint32(4), out[0].DescriptorCount)
	assert.Equal(t, vk.ShaderStageFlags(vk.ShaderStageVertexBit), out[0].StageFlags)
}

func TestPipelineBindingContextRequiresFinalize(t *testing.T) {
	pc := NewPipelineBindingContext()
	require.NoError(t, pc.AddSchema(NewDescriptorBindingSchema()))

	_, err := pc.PipelineLayout()
	assert.ErrorIs(t, err, core.ErrNotFinalized)

	_, err = pc.SetLayouts()
	assert.ErrorIs(t, err, core.ErrNotFinalized)
}
