package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultDamping        = 0.98 // velocity retained per second
	DefaultAngularDamping = 0.9  // angular velocity retained per second
	changeEpsilon         = 1e-6 // smallest kinematic change that marks a body dirty
	sleepEpsilon          = 1e-4 // speed below which an unforced body goes to sleep
)

// Shape is a collision primitive in body space.
type Shape struct {
	Type     string     // "box" or "sphere"
	HalfSize mgl64.Vec3 // box only
	Radius   float64    // sphere only
	Offset   mgl64.Vec3 // translation of the primitive from the body origin
}

// Descriptor holds everything needed to create a body.
type Descriptor struct {
	ID              string
	Static          bool
	Mass            float64
	InertialTensor  mgl64.Vec3 // diagonal; zero means derive from mass
	Shapes          []Shape
	Damping         float64 // zero means DefaultDamping
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

type listener struct {
	observer string
	fn       func(*Body)
}

// Body is a rigid body owned by a World. Kinematic state is mutated only by
// the physics package.
type Body struct {
	id              string
	static          bool
	invMass         float64
	invInertia      mgl64.Vec3
	shapes          []Shape
	damping         float64
	position        mgl64.Vec3
	orientation     mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
	force           mgl64.Vec3
	torque          mgl64.Vec3
	dirty           bool
	awake           bool
	listeners       []listener
}

func newBody(d Descriptor) *Body {
	b := &Body{
		id:              d.ID,
		static:          d.Static,
		shapes:          append([]Shape(nil), d.Shapes...),
		damping:         d.Damping,
		position:        d.Position,
		orientation:     d.Orientation,
		velocity:        d.Velocity,
		angularVelocity: d.AngularVelocity,
		awake:           !d.Static,
	}
	if b.damping <= 0 || b.damping > 1 {
		b.damping = DefaultDamping
	}
	if b.orientation.Len() == 0 {
		b.orientation = mgl64.QuatIdent()
	} else {
		b.orientation = b.orientation.Normalize()
	}
	if !d.Static && d.Mass > 0 {
		b.invMass = 1 / d.Mass
		it := d.InertialTensor
		if it == (mgl64.Vec3{}) {
			it = mgl64.Vec3{d.Mass, d.Mass, d.Mass}
		}
		for i := 0; i < 3; i++ {
			if it[i] > 0 {
				b.invInertia[i] = 1 / it[i]
			}
		}
	}
	return b
}

// ID returns the body identifier.
func (b *Body) ID() string { return b.id }

// Static reports whether the body is immovable.
func (b *Body) Static() bool { return b.static }

// Mass returns the body mass, zero for static bodies.
func (b *Body) Mass() float64 {
	if b.invMass == 0 {
		return 0
	}
	return 1 / b.invMass
}

// Position returns the centre of mass in world space.
func (b *Body) Position() mgl64.Vec3 { return b.position }

// Orientation returns the unit rotation from body to world space.
func (b *Body) Orientation() mgl64.Quat { return b.orientation }

// Velocity returns the linear velocity.
func (b *Body) Velocity() mgl64.Vec3 { return b.velocity }

// AngularVelocity returns the angular velocity in radians per second.
func (b *Body) AngularVelocity() mgl64.Vec3 { return b.angularVelocity }

// Dirty reports whether the kinematic state changed since the last
// ConsumeDirty, without clearing the flag.
func (b *Body) Dirty() bool { return b.dirty }

// ConsumeDirty returns the dirty flag and clears it.
func (b *Body) ConsumeDirty() bool {
	d := b.dirty
	b.dirty = false
	return d
}

// MarkDirty forces the body into the next delta.
func (b *Body) MarkDirty() { b.dirty = true }

// Awake reports whether the body is being integrated.
func (b *Body) Awake() bool { return b.awake }

// ApplyForce accumulates a force for the next step.
func (b *Body) ApplyForce(f mgl64.Vec3) {
	if b.static {
		return
	}
	b.force = b.force.Add(f)
	b.awake = true
}

// ApplyTorque accumulates a torque for the next step.
func (b *Body) ApplyTorque(t mgl64.Vec3) {
	if b.static {
		return
	}
	b.torque = b.torque.Add(t)
	b.awake = true
}

// ApplyImpulse changes the velocity immediately.
func (b *Body) ApplyImpulse(j mgl64.Vec3) {
	if b.static || b.invMass == 0 {
		return
	}
	b.velocity = b.velocity.Add(j.Mul(b.invMass))
	b.awake = true
	b.dirty = true
}

// ListenToUpdates registers fn to run after every step that integrates the
// body. Registering the same observer again replaces its callback.
func (b *Body) ListenToUpdates(observer string, fn func(*Body)) {
	for i := range b.listeners {
		if b.listeners[i].observer == observer {
			b.listeners[i].fn = fn
			return
		}
	}
	b.listeners = append(b.listeners, listener{observer: observer, fn: fn})
}

// Listeners returns the observer ids registered on the body.
func (b *Body) Listeners() []string {
	out := make([]string, len(b.listeners))
	for i, l := range b.listeners {
		out[i] = l.observer
	}
	return out
}

// support returns how far the body extends from its origin along unit n.
func (b *Body) support(n mgl64.Vec3) float64 {
	if len(b.shapes) == 0 {
		return 0
	}
	best := math.Inf(-1)
	for _, s := range b.shapes {
		center := n.Dot(b.orientation.Rotate(s.Offset))
		var extent float64
		switch s.Type {
		case "sphere":
			extent = s.Radius
		case "box":
			for i := 0; i < 3; i++ {
				var axis mgl64.Vec3
				axis[i] = 1
				extent += math.Abs(n.Dot(b.orientation.Rotate(axis))) * s.HalfSize[i]
			}
		}
		if v := center + extent; v > best {
			best = v
		}
	}
	return best
}

func (b *Body) integrate(dt float64) {
	linDamp := math.Pow(b.damping, dt)
	angDamp := math.Pow(DefaultAngularDamping, dt)

	b.velocity = b.velocity.Add(b.force.Mul(b.invMass * dt)).Mul(linDamp)
	angAcc := mgl64.Vec3{
		b.torque[0] * b.invInertia[0],
		b.torque[1] * b.invInertia[1],
		b.torque[2] * b.invInertia[2],
	}
	b.angularVelocity = b.angularVelocity.Add(angAcc.Mul(dt)).Mul(angDamp)

	b.position = b.position.Add(b.velocity.Mul(dt))
	spin := mgl64.Quat{V: b.angularVelocity.Mul(0.5 * dt)}.Mul(b.orientation)
	b.orientation = b.orientation.Add(spin).Normalize()

	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

type kinematics struct {
	position        mgl64.Vec3
	orientation     mgl64.Quat
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
}

func (b *Body) snapshot() kinematics {
	return kinematics{b.position, b.orientation, b.velocity, b.angularVelocity}
}

func (k kinematics) changed(b *Body) bool {
	return !k.position.ApproxEqualThreshold(b.position, changeEpsilon) ||
		!k.orientation.ApproxEqualThreshold(b.orientation, changeEpsilon) ||
		!k.velocity.ApproxEqualThreshold(b.velocity, changeEpsilon) ||
		!k.angularVelocity.ApproxEqualThreshold(b.angularVelocity, changeEpsilon)
}

func (b *Body) resting() bool {
	return b.velocity.Len() < sleepEpsilon && b.angularVelocity.Len() < sleepEpsilon
}
