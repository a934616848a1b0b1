// Package physics is a small rigid-body world: semi-implicit Euler
// integration, force generators and static half-space planes.
package physics

import "log/slog"

// World owns every body and advances them in fixed order.
type World struct {
	bodies    []*Body
	index     map[string]*Body
	planes    []*Plane
	forces    []registration
	time      float64
	logger    *slog.Logger
	committed []*Body
}

// NewWorld creates an empty world. A nil logger uses slog.Default().
func NewWorld(logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		index:  make(map[string]*Body),
		logger: logger.With("subsystem", "physics"),
	}
}

// AddBody creates a body from d and adds it to the world. A body with an
// existing id replaces the old one.
func (w *World) AddBody(d Descriptor) *Body {
	if _, ok := w.index[d.ID]; ok {
		w.logger.Warn("replacing body", "id", d.ID)
		w.RemoveBody(d.ID)
	}
	b := newBody(d)
	w.bodies = append(w.bodies, b)
	w.index[b.id] = b
	return b
}

// FindBody returns the body with the given id, or nil.
func (w *World) FindBody(id string) *Body {
	return w.index[id]
}

// RemoveBody deletes a body and its force registrations.
func (w *World) RemoveBody(id string) bool {
	b, ok := w.index[id]
	if !ok {
		return false
	}
	delete(w.index, id)
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	kept := w.forces[:0]
	for _, r := range w.forces {
		if r.body != b {
			kept = append(kept, r)
		}
	}
	w.forces = kept
	return true
}

// Bodies returns the live bodies in insertion order. The slice is a copy;
// the bodies are not.
func (w *World) Bodies() []*Body {
	return append([]*Body(nil), w.bodies...)
}

// RegisterBodyAffectedByForceGenerator makes gen act on b every step.
func (w *World) RegisterBodyAffectedByForceGenerator(b *Body, gen ForceGenerator) {
	if b == nil || gen == nil {
		return
	}
	w.forces = append(w.forces, registration{body: b, gen: gen})
}

// AddPlanes adds static boundaries.
func (w *World) AddPlanes(planes ...Plane) {
	for i := range planes {
		p := planes[i]
		if p.Normal.Len() == 0 {
			w.logger.Warn("skipping plane with zero normal", "id", p.ID)
			continue
		}
		p.Normal = p.Normal.Normalize()
		w.planes = append(w.planes, &p)
	}
}

// Planes returns the registered boundaries.
func (w *World) Planes() []Plane {
	out := make([]Plane, len(w.planes))
	for i, p := range w.planes {
		out[i] = *p
	}
	return out
}

// Time returns the simulated seconds accumulated by Update.
func (w *World) Time() float64 { return w.time }

// Update advances the world by dt seconds. Listeners of every integrated
// body run after all bodies have moved. Non-positive dt does nothing.
func (w *World) Update(dt float64) {
	if dt <= 0 {
		return
	}
	w.time += dt

	for _, r := range w.forces {
		if r.body.awake && !r.body.static {
			r.gen.UpdateForce(r.body, dt)
		}
	}

	w.committed = w.committed[:0]
	for _, b := range w.bodies {
		if b.static || !b.awake {
			continue
		}
		before := b.snapshot()
		b.integrate(dt)
		for _, p := range w.planes {
			p.resolve(b)
		}
		if before.changed(b) {
			b.dirty = true
		} else if b.resting() {
			b.awake = false
		}
		w.committed = append(w.committed, b)
	}

	for _, b := range w.committed {
		for _, l := range b.listeners {
			l.fn(b)
		}
	}
}
