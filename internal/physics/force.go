package physics

import "github.com/go-gl/mathgl/mgl64"

// ForceGenerator adds a force to a body once per step.
type ForceGenerator interface {
	UpdateForce(b *Body, dt float64)
}

// Gravity applies a constant acceleration regardless of mass.
type Gravity struct {
	Acceleration mgl64.Vec3
}

// DefaultGravity is the acceleration used when a level omits one.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// UpdateForce implements ForceGenerator.
func (g *Gravity) UpdateForce(b *Body, _ float64) {
	if b.invMass == 0 {
		return
	}
	b.ApplyForce(g.Acceleration.Mul(b.Mass()))
}

type registration struct {
	body *Body
	gen  ForceGenerator
}

// NewGravity returns a generator for acc, or DefaultGravity when acc is nil.
func NewGravity(acc *mgl64.Vec3) *Gravity {
	if acc == nil {
		return &Gravity{Acceleration: DefaultGravity}
	}
	return &Gravity{Acceleration: *acc}
}
