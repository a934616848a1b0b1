package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox(id string) Descriptor {
	return Descriptor{
		ID:     id,
		Mass:   1,
		Shapes: []Shape{{Type: "box", HalfSize: mgl64.Vec3{1, 1, 1}}},
	}
}

func TestAddFindRemove(t *testing.T) {
	w := NewWorld(nil)
	a := w.AddBody(unitBox("a"))
	w.AddBody(unitBox("b"))

	assert.Same(t, a, w.FindBody("a"))
	assert.Nil(t, w.FindBody("missing"))
	assert.Len(t, w.Bodies(), 2)

	assert.True(t, w.RemoveBody("a"))
	assert.False(t, w.RemoveBody("a"))
	assert.Nil(t, w.FindBody("a"))
	require.Len(t, w.Bodies(), 1)
	assert.Equal(t, "b", w.Bodies()[0].ID())
}

func TestNewBodyDefaults(t *testing.T) {
	w := NewWorld(nil)
	b := w.AddBody(Descriptor{ID: "x", Mass: 2})

	assert.Equal(t, mgl64.QuatIdent(), b.Orientation())
	assert.Equal(t, 2.0, b.Mass())
	assert.False(t, b.Dirty())
	assert.True(t, b.Awake())

	s := w.AddBody(Descriptor{ID: "s", Static: true, Mass: 5})
	assert.Equal(t, 0.0, s.Mass())
	assert.False(t, s.Awake())
}

func TestUpdateNonPositiveDtIsNoop(t *testing.T) {
	w := NewWorld(nil)
	d := unitBox("a")
	d.Velocity = mgl64.Vec3{1, 0, 0}
	b := w.AddBody(d)

	w.Update(0)
	w.Update(-1)

	assert.Equal(t, 0.0, w.Time())
	assert.Equal(t, mgl64.Vec3{}, b.Position())
	assert.False(t, b.Dirty())
}

func TestGravityPullsDynamicBodies(t *testing.T) {
	w := NewWorld(nil)
	d := unitBox("a")
	d.Position = mgl64.Vec3{0, 10, 0}
	b := w.AddBody(d)
	s := w.AddBody(Descriptor{ID: "s", Static: true, Position: mgl64.Vec3{0, 10, 0}})
	g := NewGravity(nil)
	w.RegisterBodyAffectedByForceGenerator(b, g)
	w.RegisterBodyAffectedByForceGenerator(s, g)
	w.RegisterBodyAffectedByForceGenerator(nil, g)

	w.Update(0.1)

	assert.Less(t, b.Position().Y(), 10.0)
	assert.Less(t, b.Velocity().Y(), 0.0)
	assert.True(t, b.ConsumeDirty())
	assert.False(t, b.Dirty())
	assert.Equal(t, 10.0, s.Position().Y())
	assert.False(t, s.Dirty())
	assert.InDelta(t, 0.1, w.Time(), 1e-12)
}

func TestPlaneStopsFallingBody(t *testing.T) {
	w := NewWorld(nil)
	w.AddPlanes(Plane{ID: "floor", Normal: mgl64.Vec3{0, 2, 0}, Visible: true})
	d := unitBox("a")
	d.Position = mgl64.Vec3{0, 1.5, 0}
	b := w.AddBody(d)
	w.RegisterBodyAffectedByForceGenerator(b, NewGravity(nil))

	for i := 0; i < 100; i++ {
		w.Update(1.0 / 30)
	}

	assert.InDelta(t, 1.0, b.Position().Y(), 1e-9)
	assert.InDelta(t, 0.0, b.Velocity().Y(), 1e-9)
	require.Len(t, w.Planes(), 1)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, w.Planes()[0].Normal)
}

func TestZeroNormalPlaneIsSkipped(t *testing.T) {
	w := NewWorld(nil)
	w.AddPlanes(Plane{ID: "bad"}, Plane{ID: "ok", Normal: mgl64.Vec3{1, 0, 0}})
	require.Len(t, w.Planes(), 1)
	assert.Equal(t, "ok", w.Planes()[0].ID)
}

func TestImpulseMarksDirtyAndWakes(t *testing.T) {
	w := NewWorld(nil)
	b := w.AddBody(unitBox("a"))
	w.Update(0.1) // at rest, goes to sleep
	require.False(t, b.Awake())

	b.ApplyImpulse(mgl64.Vec3{2, 0, 0})
	assert.True(t, b.Awake())
	assert.True(t, b.Dirty())
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, b.Velocity())

	b.ConsumeDirty()
	w.Update(0.5)
	assert.Greater(t, b.Position().X(), 0.0)
	assert.True(t, b.Dirty())
}

func TestTorqueSpinsBody(t *testing.T) {
	w := NewWorld(nil)
	b := w.AddBody(unitBox("a"))
	b.ApplyTorque(mgl64.Vec3{0, 1, 0})
	w.Update(0.5)

	assert.Greater(t, b.AngularVelocity().Y(), 0.0)
	assert.InDelta(t, 1.0, b.Orientation().Len(), 1e-9)
	assert.NotEqual(t, mgl64.QuatIdent(), b.Orientation())
}

func TestListenersRunAfterAllBodiesMoved(t *testing.T) {
	w := NewWorld(nil)
	da := unitBox("a")
	da.Velocity = mgl64.Vec3{1, 0, 0}
	a := w.AddBody(da)
	db := unitBox("b")
	db.Velocity = mgl64.Vec3{0, 0, 1}
	b := w.AddBody(db)

	var seenB mgl64.Vec3
	calls := 0
	a.ListenToUpdates("agent-a", func(body *Body) {
		calls++
		seenB = b.Position()
	})
	a.ListenToUpdates("agent-a", func(body *Body) {
		calls += 10
		seenB = b.Position()
	})

	w.Update(0.5)

	assert.Equal(t, []string{"agent-a"}, a.Listeners())
	assert.Equal(t, 10, calls)
	assert.Greater(t, seenB.Z(), 0.0)
}

func TestRemoveBodyDropsForceRegistrations(t *testing.T) {
	w := NewWorld(nil)
	b := w.AddBody(unitBox("a"))
	w.RegisterBodyAffectedByForceGenerator(b, NewGravity(nil))
	w.RemoveBody("a")
	assert.Empty(t, w.forces)
}

func TestSupportAlongRotatedBox(t *testing.T) {
	b := newBody(Descriptor{
		ID:          "a",
		Mass:        1,
		Shapes:      []Shape{{Type: "box", HalfSize: mgl64.Vec3{2, 1, 1}}},
		Orientation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
	})
	assert.InDelta(t, 2.0, b.support(mgl64.Vec3{0, 1, 0}), 1e-9)

	s := newBody(Descriptor{ID: "s", Shapes: []Shape{{Type: "sphere", Radius: 0.5, Offset: mgl64.Vec3{0, 1, 0}}}})
	assert.InDelta(t, 1.5, s.support(mgl64.Vec3{0, 1, 0}), 1e-9)
}
