package behavior

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/oops"

	"goom-server/internal/geom"
	"goom-server/internal/worldcfg"
)

// Triangle is one walkable face.
type Triangle [3]mgl64.Vec3

// Centroid returns the mean of the three corners.
func (t Triangle) Centroid() mgl64.Vec3 {
	return geom.Centroid(geom.FromMgl(t[0]), geom.FromMgl(t[1]), geom.FromMgl(t[2])).Mgl()
}

// NavigationMesh is the walkable surface shared by every agent of a world.
type NavigationMesh struct {
	Triangles []Triangle
}

// NewNavigationMesh converts configured triangles. A nil config yields an
// empty mesh, on which every point is considered walkable.
func NewNavigationMesh(cfg *worldcfg.NavigationMesh) (*NavigationMesh, error) {
	m := &NavigationMesh{}
	if cfg == nil {
		return m, nil
	}
	for i, tri := range cfg.Triangles {
		a, b, c, err := tri.Points()
		if err != nil {
			return nil, oops.With("triangle", i).Wrap(err)
		}
		m.Triangles = append(m.Triangles, Triangle{a.Mgl(), b.Mgl(), c.Mgl()})
	}
	return m, nil
}

// Locate returns the index of the triangle under p in the XZ plane, or -1.
func (m *NavigationMesh) Locate(p mgl64.Vec3) int {
	gp := geom.FromMgl(p)
	for i, t := range m.Triangles {
		if geom.PointInTriangleXZ(gp, geom.FromMgl(t[0]), geom.FromMgl(t[1]), geom.FromMgl(t[2])) {
			return i
		}
	}
	return -1
}

// Contains reports whether p is walkable.
func (m *NavigationMesh) Contains(p mgl64.Vec3) bool {
	return len(m.Triangles) == 0 || m.Locate(p) >= 0
}

// RandomPoint returns the centroid of a random triangle. It reports false
// for an empty mesh.
func (m *NavigationMesh) RandomPoint(rng *rand.Rand) (mgl64.Vec3, bool) {
	if len(m.Triangles) == 0 {
		return mgl64.Vec3{}, false
	}
	return m.Triangles[rng.IntN(len(m.Triangles))].Centroid(), true
}
