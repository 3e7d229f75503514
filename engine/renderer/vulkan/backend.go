package vulkan

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/lumenengine/lumen/engine/core"
	"github.com/lumenengine/lumen/engine/platform"
	"github.com/lumenengine/lumen/engine/renderer"
)

// How long a fence wait may block before the device is declared lost.
const fenceWaitTimeout = 5 * time.Second

// Slot index of the transform uniform block in set 0, matching the
// declaration in shaders/shader.vert.
const transformBindingSlot = 0

// VulkanRenderer implements renderer.Backend. It owns the instance,
// device, per-frame fences, the pipeline binding context and the
// transform uniform channel. Swapchain, pipeline objects and draw
// submission are wired up by downstream collaborators through the
// exposed handles.
type VulkanRenderer struct {
	platform       *platform.Platform
	FrameNumber    uint64
	context        *VulkanContext
	framesInFlight int

	bindingContext *PipelineBindingContext
	transformChan  *UniformSyncChannel
	pipelineLayout vk.PipelineLayout

	debug bool
}

func New(p *platform.Platform, framesInFlight int) *VulkanRenderer {
	return &VulkanRenderer{
		platform:    p,
		FrameNumber: 0,
		context: &VulkanContext{
			FramebufferWidth:  0,
			FramebufferHeight: 0,
			Allocator:         nil,
			Device:            &VulkanDevice{},
		},
		framesInFlight: framesInFlight,
		debug:          true,
	}
}

func (vr *VulkanRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		core.LogFatal("GetInstanceProcAddress is nil")
		return fmt.Errorf("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogFatal("failed to initialize vk: %s", err)
		return err
	}

	vr.context.FramebufferWidth = appWidth
	vr.context.FramebufferHeight = appHeight

	// Setup Vulkan instance.
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Lumen Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// Obtain a list of required extensions
	requiredExtensions := []string{"VK_KHR_surface"} // Generic surface extension
	requiredExtensions = append(requiredExtensions, vr.platform.GetRequiredExtensionNames()...)

	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
	}

	if vr.debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugUtilsExtensionName)
		core.LogInfo("Required extensions:")
		for i := 0; i < len(requiredExtensions); i++ {
			core.LogInfo(requiredExtensions[i])
		}
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	// Validation layers should only be enabled on non-release builds.
	requiredValidationLayerNames := []string{}
	if vr.debug {
		core.LogInfo("Validation layers enabled. Enumerating...")
		requiredValidationLayerNames = []string{"VK_LAYER_KHRONOS_validation"}

		if runtime.GOOS == "darwin" {
			createInfo.Flags |= 1
		}

		var availableLayerCount uint32
		if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, nil); res != vk.Success {
			return fmt.Errorf("failed to enumerate instance layers: %s", VulkanResultString(res, true))
		}
		availableLayers := make([]vk.LayerProperties, availableLayerCount)
		if res := vk.EnumerateInstanceLayerProperties(&availableLayerCount, availableLayers); res != vk.Success {
			return fmt.Errorf("failed to enumerate instance layers: %s", VulkanResultString(res, true))
		}

		// Verify all required layers are available.
		for i := range requiredValidationLayerNames {
			found := false
			for j := range availableLayers {
				availableLayers[j].Deref()
				end := FindFirstZeroInByteArray(availableLayers[j].LayerName[:])
				if requiredValidationLayerNames[i] == vk.ToString(availableLayers[j].LayerName[:end+1]) {
					found = true
					break
				}
			}
			if !found {
				core.LogFatal("Required validation layer is missing: %s", requiredValidationLayerNames[i])
				return fmt.Errorf("required validation layer is missing: %s", requiredValidationLayerNames[i])
			}
		}
		core.LogInfo("All required validation layers are present.")
	}

	createInfo.EnabledLayerCount = uint32(len(requiredValidationLayerNames))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(requiredValidationLayerNames)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		err := fmt.Errorf("failed in creating the Vulkan Instance with error `%s`", VulkanResultString(res, true))
		core.LogError(err.Error())
		return err
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	if err := DeviceCreate(vr.context); err != nil {
		return err
	}

	// One fence per frame in flight, created signaled so the first use
	// of each slot does not block.
	vr.context.InFlightFenceCount = uint32(vr.framesInFlight)
	vr.context.InFlightFences = make([]*VulkanFence, vr.framesInFlight)
	for i := 0; i < vr.framesInFlight; i++ {
		fence, err := NewFence(vr.context, true)
		if err != nil {
			return err
		}
		vr.context.InFlightFences[i] = fence
	}

	// Declare the transform uniform block binding and package the
	// pipeline layout for downstream pipeline construction.
	schema := NewDescriptorBindingSchema()
	if err := schema.AddBinding(transformBindingSlot, ResourceKindUniformBlock, 1, vk.ShaderStageFlags(vk.ShaderStageVertexBit)); err != nil {
		return err
	}
	vr.bindingContext = NewPipelineBindingContext()
	if err := vr.bindingContext.AddSchema(schema); err != nil {
		return err
	}
	pipelineLayout, err := vr.bindingContext.Finalize(vr.context)
	if err != nil {
		return err
	}
	vr.pipelineLayout = pipelineLayout

	// One region pair per frame in flight for the transform block.
	vr.transformChan, err = NewUniformSyncChannel(vr.context, renderer.TransformBlockSize, vr.framesInFlight)
	if err != nil {
		return err
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) Shutdown() error {
	if vr.context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	}

	if vr.transformChan != nil {
		vr.transformChan.Destroy()
		vr.transformChan = nil
	}
	if vr.bindingContext != nil {
		vr.bindingContext.Destroy(vr.context)
		vr.bindingContext = nil
	}
	for _, fence := range vr.context.InFlightFences {
		fence.FenceDestroy(vr.context)
	}
	vr.context.InFlightFences = nil

	DeviceDestroy(vr.context)

	if vr.context.Instance != nil {
		vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
		vr.context.Instance = nil
	}
	core.LogInfo("Vulkan renderer shut down.")
	return nil
}

func (vr *VulkanRenderer) Resized(width, height uint16) error {
	vr.context.FramebufferWidth = uint32(width)
	vr.context.FramebufferHeight = uint32(height)
	vr.context.FramebufferSizeGeneration++
	core.LogDebug("framebuffer resized to %dx%d (generation %d)", width, height, vr.context.FramebufferSizeGeneration)
	return nil
}

// BeginFrame gates the host on the current slot's fence: the previous
// draw submitted against this slot must have finished before its
// regions are rewritten. Resetting the fence is the submitter's job
// (see FrameFence); an idle slot stays signaled and never blocks.
func (vr *VulkanRenderer) BeginFrame(deltaTime float64) error {
	fence := vr.context.InFlightFences[vr.context.CurrentFrame]
	if err := fence.FenceWait(vr.context, uint64(fenceWaitTimeout.Nanoseconds())); err != nil {
		return err
	}
	vr.context.FramebufferSizeLastGeneration = vr.context.FramebufferSizeGeneration
	return nil
}

// UpdateTransform stages the block into the current slot's host region
// and flushes it to the device-local region the bound descriptor reads.
func (vr *VulkanRenderer) UpdateTransform(block *renderer.TransformBlock) error {
	slot := int(vr.context.CurrentFrame)
	if err := vr.transformChan.Write(slot, block.Bytes()); err != nil {
		return err
	}
	return vr.transformChan.Flush(slot)
}

func (vr *VulkanRenderer) EndFrame(deltaTime float64) error {
	vr.FrameNumber++
	vr.context.CurrentFrame = (vr.context.CurrentFrame + 1) % uint32(vr.framesInFlight)
	return nil
}

// PipelineLayout exposes the finalized binding-layout handle for
// graphics-pipeline construction.
func (vr *VulkanRenderer) PipelineLayout() vk.PipelineLayout {
	return vr.pipelineLayout
}

// TransformRegionHandle exposes the device-local buffer of a frame slot
// for descriptor-set allocation.
func (vr *VulkanRenderer) TransformRegionHandle(slot int) vk.Buffer {
	return vr.transformChan.DeviceRegionHandle(slot)
}

// FrameFence exposes the slot's fence for the external submitter: reset
// it via FenceReset before the queue submission that signals it, so the
// next BeginFrame on this slot waits for that work to finish.
func (vr *VulkanRenderer) FrameFence(slot int) *VulkanFence {
	return vr.context.InFlightFences[slot]
}
