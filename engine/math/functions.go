package math

import (
	m "math"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float32 = 3.14159265358979323846
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float32 = K_PI / 180.0
	/** @brief A multiplier used to convert radians to degrees. */
	K_RAD2DEG_MULTIPLIER float32 = 180.0 / K_PI
)

func ksin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func kcos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func ktan(x float32) float32 {
	return float32(m.Tan(float64(x)))
}

func ksqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

// DegToRad converts the provided degrees to radians.
func DegToRad(degrees float32) float32 {
	return degrees * K_DEG2RAD_MULTIPLIER
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float32 {
	return ksqrt(v.LengthSquared())
}

// Normalized returns a unit-length copy of the vector.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

func (v Vec3) Dot(other Vec3) float32 {
	p := float32(0)
	p += v.X * other.X
	p += v.Y * other.Y
	p += v.Z * other.Z
	return p
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X}
}

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 *
 * @return A new identity matrix
 */
func NewMat4Identity() Mat4 {
	outMatrix := Mat4{}
	outMatrix.Data[0] = 1.0
	outMatrix.Data[5] = 1.0
	outMatrix.Data[10] = 1.0
	outMatrix.Data[15] = 1.0
	return outMatrix
}

/**
 * @brief Returns the result of multiplying matrix_0 and matrix_1.
 *
 * @param other The second matrix to be multiplied.
 * @return The result of the matrix multiplication.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	outMatrix := NewMat4Identity()

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := float32(0)
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			outMatrix.Data[row*4+col] = sum
		}
	}

	return outMatrix
}

/**
 * @brief Creates and returns a perspective matrix. Typically used to render 3d scenes.
 *
 * @param fovRadians The field of view in radians.
 * @param aspectRatio The aspect ratio.
 * @param nearClip The near clipping plane distance.
 * @param farClip The far clipping plane distance.
 * @return A new perspective matrix.
 */
func NewMat4Perspective(fovRadians, aspectRatio, nearClip, farClip float32) Mat4 {
	halfTanFov := ktan(fovRadians * 0.5)
	outMatrix := Mat4{}
	outMatrix.Data[0] = 1.0 / (aspectRatio * halfTanFov)
	outMatrix.Data[5] = 1.0 / halfTanFov
	outMatrix.Data[10] = -((farClip + nearClip) / (farClip - nearClip))
	outMatrix.Data[11] = -1.0
	outMatrix.Data[14] = -((2.0 * farClip * nearClip) / (farClip - nearClip))
	return outMatrix
}

/**
 * @brief Creates and returns a look-at matrix, or a matrix looking
 * at target from the perspective of position.
 *
 * @param position The position of the matrix.
 * @param target The position to "look at".
 * @param up The up vector.
 * @return A matrix looking at target from the perspective of position.
 */
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	outMatrix := Mat4{}
	zAxis := target.Sub(position).Normalized()
	xAxis := up.Cross(zAxis).Normalized()
	yAxis := zAxis.Cross(xAxis)

	outMatrix.Data[0] = xAxis.X
	outMatrix.Data[1] = yAxis.X
	outMatrix.Data[2] = -zAxis.X
	outMatrix.Data[3] = 0
	outMatrix.Data[4] = xAxis.Y
	outMatrix.Data[5] = yAxis.Y
	outMatrix.Data[6] = -zAxis.Y
	outMatrix.Data[7] = 0
	outMatrix.Data[8] = xAxis.Z
	outMatrix.Data[9] = yAxis.Z
	outMatrix.Data[10] = -zAxis.Z
	outMatrix.Data[11] = 0
	outMatrix.Data[12] = -xAxis.Dot(position)
	outMatrix.Data[13] = -yAxis.Dot(position)
	outMatrix.Data[14] = zAxis.Dot(position)
	outMatrix.Data[15] = 1.0

	return outMatrix
}

/**
 * @brief Creates a rotation matrix from the provided x angle.
 *
 * @param angleRadians The x angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerX(angleRadians float32) Mat4 {
	outMatrix := NewMat4Identity()
	c := kcos(angleRadians)
	s := ksin(angleRadians)

	outMatrix.Data[5] = c
	outMatrix.Data[6] = s
	outMatrix.Data[9] = -s
	outMatrix.Data[10] = c
	return outMatrix
}

/**
 * @brief Creates a rotation matrix from the provided y angle.
 *
 * @param angleRadians The y angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerY(angleRadians float32) Mat4 {
	outMatrix := NewMat4Identity()
	c := kcos(angleRadians)
	s := ksin(angleRadians)

	outMatrix.Data[0] = c
	outMatrix.Data[2] = -s
	outMatrix.Data[8] = s
	outMatrix.Data[10] = c
	return outMatrix
}

/**
 * @brief Creates a rotation matrix from the provided z angle.
 *
 * @param angleRadians The z angle in radians.
 * @return A rotation matrix.
 */
func NewMat4EulerZ(angleRadians float32) Mat4 {
	outMatrix := NewMat4Identity()

	c := kcos(angleRadians)
	s := ksin(angleRadians)

	outMatrix.Data[0] = c
	outMatrix.Data[1] = s
	outMatrix.Data[4] = -s
	outMatrix.Data[5] = c
	return outMatrix
}
