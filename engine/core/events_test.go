package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEventCode SystemEventCode = 0x101

func setupEvents(t *testing.T) {
	t.Helper()
	EventInitialize()
	t.Cleanup(func() {
		require.NoError(t, EventShutdown())
	})
}

func TestEventFireReachesListener(t *testing.T) {
	setupEvents(t)

	listener := &struct{ name string }{"listener"}
	received := 0
	handler := func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool {
		received++
		assert.Equal(t, testEventCode, code)
		assert.Equal(t, uint16(42), data.Data.U16[0])
		return true
	}
	require.True(t, EventRegister(testEventCode, listener, handler))

	context := EventContext{}
	context.Data.U16[0] = 42
	assert.True(t, EventFire(testEventCode, nil, context))
	assert.Equal(t, 1, received)
}

func TestEventFireWithoutListenersReturnsFalse(t *testing.T) {
	setupEvents(t)

	assert.False(t, EventFire(testEventCode, nil, EventContext{}))
}

func TestEventDuplicateRegistrationRejected(t *testing.T) {
	setupEvents(t)

	listener := &struct{}{}
	handler := func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool {
		return false
	}
	require.True(t, EventRegister(testEventCode, listener, handler))
	assert.False(t, EventRegister(testEventCode, listener, handler))
}

func TestEventUnregisterStopsDelivery(t *testing.T) {
	setupEvents(t)

	listener := &struct{}{}
	received := 0
	handler := func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool {
		received++
		return true
	}
	require.True(t, EventRegister(testEventCode, listener, handler))
	require.True(t, EventUnregister(testEventCode, listener, handler))

	assert.False(t, EventFire(testEventCode, nil, EventContext{}))
	assert.Equal(t, 0, received)
}

func TestEventHandledStopsPropagation(t *testing.T) {
	setupEvents(t)

	firstCalled := false
	secondCalled := false
	first := &struct{ id int }{1}
	second := &struct{ id int }{2}

	require.True(t, EventRegister(testEventCode, first, func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool {
		firstCalled = true
		return true
	}))
	require.True(t, EventRegister(testEventCode, second, func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool {
		secondCalled = true
		return true
	}))

	assert.True(t, EventFire(testEventCode, nil, EventContext{}))
	assert.True(t, firstCalled)
	assert.False(t, secondCalled)
}
