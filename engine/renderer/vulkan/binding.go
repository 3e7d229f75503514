package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/lumenengine/lumen/engine/core"
)

/**
 * @brief The resource kinds a binding slot can expose to a shader stage.
 * Only uniform blocks are supported; samplers and storage buffers are
 * future extensions.
 */
type ResourceKind int

const (
	ResourceKindUniformBlock ResourceKind = iota
)

func (k ResourceKind) descriptorType() vk.DescriptorType {
	switch k {
	default:
		fallthrough
	case ResourceKindUniformBlock:
		return vk.DescriptorTypeUniformBuffer
	}
}

// DescriptorBinding declares one slot a shader stage accesses a resource
// through. Immutable after construction.
type DescriptorBinding struct {
	SlotIndex     uint32
	Kind          ResourceKind
	ElementCount  uint32
	VisibleStages vk.ShaderStageFlags
}

// DescriptorBindingSchema collects the bindings of one descriptor set at
// pipeline-build time. Slot indices must be unique within a schema; the
// declaration order is retained so layout construction stays
// deterministic, but the device consults bindings by slot index only.
type DescriptorBindingSchema struct {
	bindings  []DescriptorBinding
	slots     map[uint32]struct{}
	finalized bool
}

func NewDescriptorBindingSchema() *DescriptorBindingSchema {
	return &DescriptorBindingSchema{
		slots: make(map[uint32]struct{}),
	}
}

// AddBinding registers a slot. Reusing a slot index fails with
// ErrDuplicateSlot, never silently overwrites. Mutation after Finalize
// fails with ErrAlreadyFinalized.
func (s *DescriptorBindingSchema) AddBinding(slotIndex uint32, kind ResourceKind, elementCount uint32, visibleStages vk.ShaderStageFlags) error {
	if s.finalized {
		return fmt.Errorf("add binding %d: %w", slotIndex, core.ErrAlreadyFinalized)
	}
	if elementCount == 0 {
		return fmt.Errorf("add binding %d: element count must be at least 1", slotIndex)
	}
	if _, ok := s.slots[slotIndex]; ok {
		return fmt.Errorf("add binding %d: %w", slotIndex, core.ErrDuplicateSlot)
	}
	s.slots[slotIndex] = struct{}{}
	s.bindings = append(s.bindings, DescriptorBinding{
		SlotIndex:     slotIndex,
		Kind:          kind,
		ElementCount:  elementCount,
		VisibleStages: visibleStages,
	})
	return nil
}

// Finalize freezes the schema. Repeated calls return the same snapshot.
func (s *DescriptorBindingSchema) Finalize() *BindingLayout {
	s.finalized = true
	bindings := make([]DescriptorBinding, len(s.bindings))
	copy(bindings, s.bindings)
	return &BindingLayout{bindings: bindings}
}

// Bindings returns a copy of the declared bindings in declaration order.
func (s *DescriptorBindingSchema) Bindings() []DescriptorBinding {
	out := make([]DescriptorBinding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// BindingLayout is the immutable snapshot of a finalized schema.
type BindingLayout struct {
	bindings []DescriptorBinding
}

func (l *BindingLayout) Bindings() []DescriptorBinding {
	out := make([]DescriptorBinding, len(l.bindings))
	copy(out, l.bindings)
	return out
}

func (l *BindingLayout) descriptorSetLayoutBindings() []vk.DescriptorSetLayoutBinding {
	out := make([]vk.DescriptorSetLayoutBinding, len(l.bindings))
	for i, b := range l.bindings {
		out[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.SlotIndex,
			DescriptorType:  b.Kind.descriptorType(),
			DescriptorCount: b.ElementCount,
			StageFlags:      b.VisibleStages,
		}
	}
	return out
}

// PipelineBindingContext aggregates binding schemas into the descriptor
// set layouts and the pipeline layout consumed by graphics-pipeline
// construction and, later, descriptor-set allocation.
type PipelineBindingContext struct {
	schemas        []*DescriptorBindingSchema
	setLayouts     []vk.DescriptorSetLayout
	pipelineLayout vk.PipelineLayout
	finalized      bool
}

func NewPipelineBindingContext() *PipelineBindingContext {
	return &PipelineBindingContext{}
}

// AddSchema appends a descriptor set schema. Set numbers follow the
// order schemas are added in.
func (pc *PipelineBindingContext) AddSchema(schema *DescriptorBindingSchema) error {
	if pc.finalized {
		return fmt.Errorf("add schema: %w", core.ErrAlreadyFinalized)
	}
	pc.schemas = append(pc.schemas, schema)
	return nil
}

// Finalize freezes every schema, creates one descriptor set layout per
// schema and packages them into the pipeline layout. The returned
// handle is what pipeline construction consumes.
func (pc *PipelineBindingContext) Finalize(context *VulkanContext) (vk.PipelineLayout, error) {
	if pc.finalized {
		return pc.pipelineLayout, nil
	}

	setLayouts := make([]vk.DescriptorSetLayout, len(pc.schemas))
	for i, schema := range pc.schemas {
		layout := schema.Finalize()
		bindings := layout.descriptorSetLayoutBindings()

		layoutInfo := vk.DescriptorSetLayoutCreateInfo{
			SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
			BindingCount: uint32(len(bindings)),
			PBindings:    bindings,
		}
		if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &setLayouts[i]); res != vk.Success {
			pc.destroySetLayouts(context, setLayouts[:i])
			err := fmt.Errorf("failed to create descriptor set layout %d: %s", i, VulkanResultString(res, true))
			core.LogError(err.Error())
			return vk.NullPipelineLayout, err
		}
	}

	pipelineLayoutInfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(setLayouts)),
		PSetLayouts:    setLayouts,
	}
	var pipelineLayout vk.PipelineLayout
	if res := vk.CreatePipelineLayout(context.Device.LogicalDevice, &pipelineLayoutInfo, context.Allocator, &pipelineLayout); res != vk.Success {
		pc.destroySetLayouts(context, setLayouts)
		err := fmt.Errorf("failed to create pipeline layout: %s", VulkanResultString(res, true))
		core.LogError(err.Error())
		return vk.NullPipelineLayout, err
	}

	pc.setLayouts = setLayouts
	pc.pipelineLayout = pipelineLayout
	pc.finalized = true
	return pc.pipelineLayout, nil
}

// PipelineLayout returns the finalized layout handle.
func (pc *PipelineBindingContext) PipelineLayout() (vk.PipelineLayout, error) {
	if !pc.finalized {
		return vk.NullPipelineLayout, core.ErrNotFinalized
	}
	return pc.pipelineLayout, nil
}

// SetLayouts returns the descriptor set layouts, one per schema, for
// descriptor-set allocation downstream.
func (pc *PipelineBindingContext) SetLayouts() ([]vk.DescriptorSetLayout, error) {
	if !pc.finalized {
		return nil, core.ErrNotFinalized
	}
	out := make([]vk.DescriptorSetLayout, len(pc.setLayouts))
	copy(out, pc.setLayouts)
	return out, nil
}

func (pc *PipelineBindingContext) destroySetLayouts(context *VulkanContext, layouts []vk.DescriptorSetLayout) {
	for _, l := range layouts {
		if l != vk.NullDescriptorSetLayout {
			vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, l, context.Allocator)
		}
	}
}

func (pc *PipelineBindingContext) Destroy(context *VulkanContext) {
	if pc.pipelineLayout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(context.Device.LogicalDevice, pc.pipelineLayout, context.Allocator)
		pc.pipelineLayout = vk.NullPipelineLayout
	}
	pc.destroySetLayouts(context, pc.setLayouts)
	pc.setLayouts = nil
}
