package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"

	"github.com/lumenengine/lumen/engine/core"
)

// MemoryRegionPair couples the host-visible staging region with the
// device-local region the device actually reads during rendering. Both
// regions have identical byte capacity. The staging buffer stays mapped
// for the pair's entire lifetime.
type MemoryRegionPair struct {
	HostBuffer vk.Buffer
	HostMemory vk.DeviceMemory
	// Persistently mapped view of HostMemory.
	hostMapped []byte

	DeviceBuffer vk.Buffer
	DeviceMemory vk.DeviceMemory
}

// UniformSyncChannel owns one MemoryRegionPair per frame in flight for
// a single uniform block and performs the host write and host-to-device
// transfer that make newly composed data visible to the device.
//
// The replication means the region being written by the host is never
// the region a previously submitted draw is still reading, as long as
// the caller waits on the slot's fence before reusing it; the channel
// itself does not decide when that wait happens.
type UniformSyncChannel struct {
	// Debug label correlating this channel's resources in logs.
	ID uuid.UUID

	context  *VulkanContext
	byteSize uint64
	regions  []MemoryRegionPair

	destroyed bool
}

// NewUniformSyncChannel allocates framesInFlight region pairs of exactly
// byteSize bytes each. Either every allocation succeeds or everything
// is rolled back and the error wraps core.ErrAllocationFailure.
func NewUniformSyncChannel(context *VulkanContext, byteSize uint64, framesInFlight int) (*UniformSyncChannel, error) {
	if byteSize == 0 {
		return nil, fmt.Errorf("uniform channel byte size must be positive")
	}
	if framesInFlight < 1 {
		return nil, fmt.Errorf("uniform channel needs at least one frame in flight, got %d", framesInFlight)
	}

	channel := &UniformSyncChannel{
		ID:       uuid.New(),
		context:  context,
		byteSize: byteSize,
		regions:  make([]MemoryRegionPair, framesInFlight),
	}

	for i := range channel.regions {
		if err := channel.initializeRegion(&channel.regions[i]); err != nil {
			channel.Destroy()
			return nil, fmt.Errorf("uniform channel %s region %d: %w", channel.ID, i, err)
		}
	}

	core.LogDebug("uniform channel %s initialized: %d bytes x %d frames in flight", channel.ID, byteSize, framesInFlight)
	return channel, nil
}

func (c *UniformSyncChannel) initializeRegion(region *MemoryRegionPair) error {
	size := vk.DeviceSize(c.byteSize)

	hostBuffer, hostMemory, err := createBuffer(
		c.context,
		size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return err
	}

	var pData unsafe.Pointer
	if res := vk.MapMemory(c.context.Device.LogicalDevice, hostMemory, 0, size, 0, &pData); res != vk.Success {
		vk.FreeMemory(c.context.Device.LogicalDevice, hostMemory, c.context.Allocator)
		vk.DestroyBuffer(c.context.Device.LogicalDevice, hostBuffer, c.context.Allocator)
		return fmt.Errorf("host region map failed with %s: %w", VulkanResultString(res, false), core.ErrAllocationFailure)
	}

	deviceBuffer, deviceMemory, err := createBuffer(
		c.context,
		size,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)|
			vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	if err != nil {
		vk.UnmapMemory(c.context.Device.LogicalDevice, hostMemory)
		vk.FreeMemory(c.context.Device.LogicalDevice, hostMemory, c.context.Allocator)
		vk.DestroyBuffer(c.context.Device.LogicalDevice, hostBuffer, c.context.Allocator)
		return err
	}

	region.HostBuffer = hostBuffer
	region.HostMemory = hostMemory
	region.hostMapped = unsafe.Slice((*byte)(pData), c.byteSize)
	region.DeviceBuffer = deviceBuffer
	region.DeviceMemory = deviceMemory
	return nil
}

// ByteSize returns the capacity of each region.
func (c *UniformSyncChannel) ByteSize() uint64 {
	return c.byteSize
}

// FramesInFlight returns the number of replicated region pairs.
func (c *UniformSyncChannel) FramesInFlight() int {
	return len(c.regions)
}

// Write copies data verbatim into the host region of the given frame
// slot. The copy completes before any device-side transfer can begin,
// so a reader can never observe a torn block. The payload must match
// the channel byte size exactly.
func (c *UniformSyncChannel) Write(slot int, data []byte) error {
	if c.destroyed {
		return fmt.Errorf("write slot %d: %w", slot, core.ErrChannelDestroyed)
	}
	if slot < 0 || slot >= len(c.regions) {
		return fmt.Errorf("write: slot %d out of range [0,%d)", slot, len(c.regions))
	}
	if uint64(len(data)) != c.byteSize {
		return fmt.Errorf("write slot %d: got %d bytes, channel holds %d: %w", slot, len(data), c.byteSize, core.ErrSizeMismatch)
	}
	copy(c.regions[slot].hostMapped, data)
	return nil
}

// Flush transfers the full byte range of the slot's host region into
// its device-local region. This is the only mechanism through which
// device-visible state changes; without it, the device keeps observing
// the previous frame's bytes. The transfer is submitted on the transfer
// queue and waited on, so the device region holds fully written bytes
// when Flush returns.
func (c *UniformSyncChannel) Flush(slot int) error {
	if c.destroyed {
		return fmt.Errorf("flush slot %d: %w", slot, core.ErrChannelDestroyed)
	}
	if slot < 0 || slot >= len(c.regions) {
		return fmt.Errorf("flush: slot %d out of range [0,%d)", slot, len(c.regions))
	}

	pool := c.context.Device.TransferCommandPool
	queue := c.context.Device.TransferQueue

	cb, err := AllocateAndBeginSingleUse(c.context, pool)
	if err != nil {
		return err
	}

	copyRegion := vk.BufferCopy{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      vk.DeviceSize(c.byteSize),
	}
	vk.CmdCopyBuffer(cb.Handle, c.regions[slot].HostBuffer, c.regions[slot].DeviceBuffer, 1, []vk.BufferCopy{copyRegion})

	return cb.EndSingleUse(c.context, pool, queue)
}

// DeviceRegionHandle exposes the device-local buffer of the given slot
// for descriptor-set binding downstream.
func (c *UniformSyncChannel) DeviceRegionHandle(slot int) vk.Buffer {
	if c.destroyed || slot < 0 || slot >= len(c.regions) {
		return vk.NullBuffer
	}
	return c.regions[slot].DeviceBuffer
}

// Destroy releases every region pair. Safe to call more than once.
func (c *UniformSyncChannel) Destroy() {
	if c.destroyed {
		return
	}
	for i := range c.regions {
		region := &c.regions[i]
		if region.HostMemory != vk.NullDeviceMemory {
			vk.UnmapMemory(c.context.Device.LogicalDevice, region.HostMemory)
			vk.FreeMemory(c.context.Device.LogicalDevice, region.HostMemory, c.context.Allocator)
			region.HostMemory = vk.NullDeviceMemory
		}
		if region.HostBuffer != vk.NullBuffer {
			vk.DestroyBuffer(c.context.Device.LogicalDevice, region.HostBuffer, c.context.Allocator)
			region.HostBuffer = vk.NullBuffer
		}
		if region.DeviceMemory != vk.NullDeviceMemory {
			vk.FreeMemory(c.context.Device.LogicalDevice, region.DeviceMemory, c.context.Allocator)
			region.DeviceMemory = vk.NullDeviceMemory
		}
		if region.DeviceBuffer != vk.NullBuffer {
			vk.DestroyBuffer(c.context.Device.LogicalDevice, region.DeviceBuffer, c.context.Allocator)
			region.DeviceBuffer = vk.NullBuffer
		}
		region.hostMapped = nil
	}
	c.destroyed = true
}
