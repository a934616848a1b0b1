// Package geom holds the wire-level vector and quaternion shapes shared by
// the simulation subsystems and the client protocol.
package geom

import "github.com/go-gl/mathgl/mgl64"

// Vec3 is a 3D vector as it appears in configuration and on the wire.
type Vec3 struct {
	X float64 `json:"x" msgpack:"x" yaml:"x"`
	Y float64 `json:"y" msgpack:"y" yaml:"y"`
	Z float64 `json:"z" msgpack:"z" yaml:"z"`
}

// Quat is a rotation quaternion with real part R and imaginary parts I, J, K.
type Quat struct {
	R float64 `json:"r" msgpack:"r" yaml:"r"`
	I float64 `json:"i" msgpack:"i" yaml:"i"`
	J float64 `json:"j" msgpack:"j" yaml:"j"`
	K float64 `json:"k" msgpack:"k" yaml:"k"`
}

// Identity is the no-rotation quaternion.
var Identity = Quat{R: 1}

// Mgl converts to an mgl64 vector.
func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Mgl converts to an mgl64 quaternion.
func (q Quat) Mgl() mgl64.Quat {
	return mgl64.Quat{W: q.R, V: mgl64.Vec3{q.I, q.J, q.K}}
}

// FromMgl converts an mgl64 vector to its wire form.
func FromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// FromMglQuat converts an mgl64 quaternion to its wire form.
func FromMglQuat(q mgl64.Quat) Quat {
	return Quat{R: q.W, I: q.V[0], J: q.V[1], K: q.V[2]}
}

// VecOrZero dereferences v, returning the zero vector for nil.
func VecOrZero(v *Vec3) mgl64.Vec3 {
	if v == nil {
		return mgl64.Vec3{}
	}
	return v.Mgl()
}

// QuatOrIdentity dereferences q, returning the identity rotation for nil.
func QuatOrIdentity(q *Quat) mgl64.Quat {
	if q == nil {
		return mgl64.QuatIdent()
	}
	return q.Mgl()
}
