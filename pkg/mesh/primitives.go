package mesh

import (
	gomath "math"

	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
)

// DefaultCylinderSegments is the radial resolution of corner markers.
const DefaultCylinderSegments = 16

// builder accumulates vertices and triangles for the primitive constructors.
type builder struct {
	m *Mesh
}

func newBuilder(owner uuid.UUID) *builder {
	return &builder{m: New(owner)}
}

func (b *builder) vertex(p, n math.Vec3) uint32 {
	b.m.Positions = append(b.m.Positions, p)
	b.m.Normals = append(b.m.Normals, n)
	return uint32(len(b.m.Positions) - 1)
}

func (b *builder) tri(i0, i1, i2 uint32) {
	b.m.Indices = append(b.m.Indices, i0, i1, i2)
}

// quad adds two triangles for a counter-clockwise quad (viewed from its front).
func (b *builder) quad(p0, p1, p2, p3, n math.Vec3) {
	i0 := b.vertex(p0, n)
	i1 := b.vertex(p1, n)
	i2 := b.vertex(p2, n)
	i3 := b.vertex(p3, n)
	b.tri(i0, i1, i2)
	b.tri(i0, i2, i3)
}

// Box returns an axis-aligned box of the given size centred at the origin.
// Each face has its own four vertices (24 in total) with outward normals.
func Box(owner uuid.UUID, width, height, depth float64) *Mesh {
	b := newBuilder(owner)
	hx, hy, hz := width/2, height/2, depth/2

	x := math.Vec3{X: 1}
	y := math.Vec3{Y: 1}
	z := math.Vec3{Z: 1}

	faces := []struct {
		n, u, v math.Vec3
		d       float64
		du, dv  float64
	}{
		{x, y, z, hx, hy, hz},
		{x.Negate(), z, y, hx, hz, hy},
		{y, z, x, hy, hz, hx},
		{y.Negate(), x, z, hy, hx, hz},
		{z, x, y, hz, hx, hy},
		{z.Negate(), y, x, hz, hy, hx},
	}

	for _, f := range faces {
		c := f.n.Scale(f.d)
		u := f.u.Scale(f.du)
		v := f.v.Scale(f.dv)
		b.quad(
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
			f.n,
		)
	}
	return b.m
}

// Cylinder returns a capped cylinder around the Y axis centred at the origin.
// segments below 3 fall back to DefaultCylinderSegments.
func Cylinder(owner uuid.UUID, radius, height float64, segments int) *Mesh {
	if segments < 3 {
		segments = DefaultCylinderSegments
	}
	b := newBuilder(owner)
	hy := height / 2

	ring := func(i int) (math.Vec3, math.Vec3) {
		theta := 2 * gomath.Pi * float64(i%segments) / float64(segments)
		dir := math.Vec3{X: gomath.Cos(theta), Z: -gomath.Sin(theta)}
		return dir.Scale(radius), dir
	}

	up := math.Vec3{Y: 1}
	for i := 0; i < segments; i++ {
		p0, n0 := ring(i)
		p1, n1 := ring(i + 1)

		b0 := b.vertex(p0.Add(up.Scale(-hy)), n0)
		b1 := b.vertex(p1.Add(up.Scale(-hy)), n1)
		t1 := b.vertex(p1.Add(up.Scale(hy)), n1)
		t0 := b.vertex(p0.Add(up.Scale(hy)), n0)
		b.tri(b0, b1, t1)
		b.tri(b0, t1, t0)
	}

	for _, capY := range []float64{hy, -hy} {
		n := up.Scale(gomath.Copysign(1, capY))
		center := b.vertex(math.Vec3{Y: capY}, n)
		first := uint32(len(b.m.Positions))
		for i := 0; i < segments; i++ {
			p, _ := ring(i)
			p.Y = capY
			b.vertex(p, n)
		}
		for i := 0; i < segments; i++ {
			i0 := first + uint32(i)
			i1 := first + uint32((i+1)%segments)
			if capY > 0 {
				b.tri(center, i0, i1)
			} else {
				b.tri(center, i1, i0)
			}
		}
	}
	return b.m
}

// Extrude builds a prism from a plan loop. tris indexes loop in triples and
// must describe upward-facing triangles; the top copies them at y=top, the
// bottom mirrors them at y=bottom and side walls face outward.
func Extrude(owner uuid.UUID, loop []math.Vec3, tris []int, bottom, top float64) *Mesh {
	b := newBuilder(owner)
	up := math.Vec3{Y: 1}
	down := up.Negate()

	at := func(p math.Vec3, y float64) math.Vec3 {
		return math.Vec3{X: p.X, Y: y, Z: p.Z}
	}

	for i := 0; i+2 < len(tris); i += 3 {
		a, c, d := loop[tris[i]], loop[tris[i+1]], loop[tris[i+2]]
		b.tri(b.vertex(at(a, top), up), b.vertex(at(c, top), up), b.vertex(at(d, top), up))
		b.tri(b.vertex(at(a, bottom), down), b.vertex(at(d, bottom), down), b.vertex(at(c, bottom), down))
	}

	ring := trimClosing(loop)
	if math.SignedAreaXZ(ring) < 0 {
		reversed := make([]math.Vec3, len(ring))
		for i, p := range ring {
			reversed[len(ring)-1-i] = p
		}
		ring = reversed
	}
	for i := range ring {
		p, q := ring[i], ring[(i+1)%len(ring)]
		edge := q.Sub(p)
		n := math.Vec3{X: -edge.Z, Z: edge.X}.Normalize()
		b.quad(at(p, bottom), at(q, bottom), at(q, top), at(p, top), n)
	}
	return b.m
}

func trimClosing(loop []math.Vec3) []math.Vec3 {
	if len(loop) > 1 && loop[0].ApproxEqual(loop[len(loop)-1], 1e-9) {
		return loop[:len(loop)-1]
	}
	return loop
}
