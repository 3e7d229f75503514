package renderer

import (
	"unsafe"

	"github.com/lumenengine/lumen/engine/math"
)

// TransformBlockSize is the byte size of the uniform block as declared
// on the shader side: three column-major 4x4 float matrices, 64 bytes
// each, contiguous, no padding.
const TransformBlockSize = 192

// TransformBlock mirrors the shader-side uniform block byte for byte.
// Field order, size and alignment are part of the contract with the
// vertex shader; the assertion below pins it at compile time.
type TransformBlock struct {
	Model      math.Mat4
	View       math.Mat4
	Projection math.Mat4
}

// Fails to compile if the Go struct layout ever drifts from the
// declared 192-byte contract.
var _ [TransformBlockSize]byte = [unsafe.Sizeof(TransformBlock{})]byte{}

// Bytes reinterprets the block as its raw bytes, in declaration order.
// The returned slice aliases the block; callers copy it into staging
// memory before the block goes out of scope.
func (t *TransformBlock) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(t)), TransformBlockSize)
}
