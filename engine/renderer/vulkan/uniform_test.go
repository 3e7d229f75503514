package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenengine/lumen/engine/core"
)

// newHostOnlyChannel builds a channel whose host regions are plain Go
// slices and whose device handles are null. Write validation and copy
// behavior are device independent, so this exercises them without a
// Vulkan instance.
func newHostOnlyChannel(byteSize uint64, framesInFlight int) *UniformSyncChannel {
	channel := &UniformSyncChannel{
		ID:       uuid.New(),
		byteSize: byteSize,
		regions:  make([]MemoryRegionPair, framesInFlight),
	}
	for i := range channel.regions {
		channel.regions[i].hostMapped = make([]byte, byteSize)
	}
	return channel
}

func TestNewUniformSyncChannelValidatesArguments(t *testing.T) {
	// Both checks run before any device work, so no context is needed.
	_, err := NewUniformSyncChannel(nil, 0, 2)
	assert.Error(t, err)

	_, err = NewUniformSyncChannel(nil, 192, 0)
	assert.Error(t, err)

	_, err = NewUniformSyncChannel(nil, 192, -1)
	assert.Error(t, err)
}

func TestUniformChannelWrite(t *testing.T) {
	channel := newHostOnlyChannel(192, 2)

	payload := make([]byte, 192)
	for i := range payload {
		payload[i] = byte(i)
	}

	require.NoError(t, channel.Write(0, payload))
	assert.Equal(t, payload, channel.regions[0].hostMapped)

	// Slot 1 is untouched.
	assert.Equal(t, make([]byte, 192), channel.regions[1].hostMapped)
}

func TestUniformChannelWriteIsVerbatim(t *testing.T) {
	channel := newHostOnlyChannel(16, 1)

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	require.NoError(t, channel.Write(0, payload))
	assert.Equal(t, payload, channel.regions[0].hostMapped)

	// Mutating the caller's buffer afterwards does not reach the region.
	payload[0] = 0x00
	assert.Equal(t, byte(0xDE), channel.regions[0].hostMapped[0])
}

func TestUniformChannelWriteRejectsSizeMismatch(t *testing.T) {
	channel := newHostOnlyChannel(192, 2)

	err := channel.Write(0, make([]byte, 191))
	assert.ErrorIs(t, err, core.ErrSizeMismatch)

	err = channel.Write(0, make([]byte, 193))
	assert.ErrorIs(t, err, core.ErrSizeMismatch)

	err = channel.Write(0, nil)
	assert.ErrorIs(t, err, core.ErrSizeMismatch)

	// A rejected write leaves the region untouched.
	assert.Equal(t, make([]byte, 192), channel.regions[0].hostMapped)
}

func TestUniformChannelWriteRejectsBadSlot(t *testing.T) {
	channel := newHostOnlyChannel(64, 2)

	assert.Error(t, channel.Write(-1, make([]byte, 64)))
	assert.Error(t, channel.Write(2, make([]byte, 64)))
}

func TestUniformChannelAccessors(t *testing.T) {
	channel := newHostOnlyChannel(192, 3)

	assert.Equal(t, uint64(192), channel.ByteSize())
	assert.Equal(t, 3, channel.FramesInFlight())
	assert.Equal(t, vk.NullBuffer, channel.DeviceRegionHandle(5))
	assert.Equal(t, vk.NullBuffer, channel.DeviceRegionHandle(-1))
}

func TestUniformChannelDestroyIsIdempotent(t *testing.T) {
	channel := newHostOnlyChannel(64, 2)

	channel.Destroy()
	channel.Destroy()

	err := channel.Write(0, make([]byte, 64))
	assert.ErrorIs(t, err, core.ErrChannelDestroyed)

	err = channel.Flush(0)
	assert.ErrorIs(t, err, core.ErrChannelDestroyed)

	assert.Equal(t, vk.NullBuffer, channel.DeviceRegionHandle(0))
}
