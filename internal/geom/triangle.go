package geom

// cross2D returns the 2D cross product of vectors (bx-ax,by-ay) and (cx-ax,cy-ay).
func cross2D(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

// pointInTriangle checks if point (px,py) is inside triangle (ax,ay)-(bx,by)-(cx,cy).
// Points on an edge count as inside.
func pointInTriangle(px, py, ax, ay, bx, by, cx, cy float64) bool {
	d1 := cross2D(ax, ay, bx, by, px, py)
	d2 := cross2D(bx, by, cx, cy, px, py)
	d3 := cross2D(cx, cy, ax, ay, px, py)
	hasNeg := (d1 < 0) || (d2 < 0) || (d3 < 0)
	hasPos := (d1 > 0) || (d2 > 0) || (d3 > 0)
	return !(hasNeg && hasPos)
}

// PointInTriangleXZ checks if p lies inside triangle abc when all four are
// projected onto the XZ (ground) plane.
func PointInTriangleXZ(p, a, b, c Vec3) bool {
	return pointInTriangle(p.X, p.Z, a.X, a.Z, b.X, b.Z, c.X, c.Z)
}

// Centroid returns the average of the three vertices.
func Centroid(a, b, c Vec3) Vec3 {
	return Vec3{
		X: (a.X + b.X + c.X) / 3,
		Y: (a.Y + b.Y + c.Y) / 3,
		Z: (a.Z + b.Z + c.Z) / 3,
	}
}
