package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/lumenengine/lumen/engine/core"
)

// createBuffer creates a buffer of the given size and binds freshly
// allocated memory with the requested properties to it. On any failure
// nothing is left allocated and the error wraps
// core.ErrAllocationFailure.
func createBuffer(
	context *VulkanContext,
	size vk.DeviceSize,
	usage vk.BufferUsageFlags,
	properties vk.MemoryPropertyFlags,
) (vk.Buffer, vk.DeviceMemory, error) {
	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &bufferInfo, context.Allocator, &buffer); res != vk.Success {
		return vk.NullBuffer, vk.NullDeviceMemory, fmt.Errorf("buffer creation failed with %s: %w", VulkanResultString(res, false), core.ErrAllocationFailure)
	}

	var memRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, buffer, &memRequirements)
	memRequirements.Deref()

	memoryIndex := context.FindMemoryIndex(memRequirements.MemoryTypeBits, uint32(properties))
	if memoryIndex == -1 {
		vk.DestroyBuffer(context.Device.LogicalDevice, buffer, context.Allocator)
		return vk.NullBuffer, vk.NullDeviceMemory, fmt.Errorf("no memory type matches the requested properties: %w", core.ErrAllocationFailure)
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: uint32(memoryIndex),
	}

	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(context.Device.LogicalDevice, &allocInfo, context.Allocator, &memory); res != vk.Success {
		vk.DestroyBuffer(context.Device.LogicalDevice, buffer, context.Allocator)
		return vk.NullBuffer, vk.NullDeviceMemory, fmt.Errorf("memory allocation failed with %s: %w", VulkanResultString(res, false), core.ErrAllocationFailure)
	}

	if res := vk.BindBufferMemory(context.Device.LogicalDevice, buffer, memory, 0); res != vk.Success {
		vk.FreeMemory(context.Device.LogicalDevice, memory, context.Allocator)
		vk.DestroyBuffer(context.Device.LogicalDevice, buffer, context.Allocator)
		return vk.NullBuffer, vk.NullDeviceMemory, fmt.Errorf("buffer memory bind failed with %s: %w", VulkanResultString(res, false), core.ErrAllocationFailure)
	}

	return buffer, memory, nil
}
