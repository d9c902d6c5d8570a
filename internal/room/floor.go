package room

import (
	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// Floor slab defaults.
const (
	DefaultLift         = 0.01
	DefaultThickness    = 0.1
	DefaultCutterMargin = 0.05
)

// FloorOptions controls the floor slab geometry.
type FloorOptions struct {
	Lift      float64 // gap between the wall base and the slab bottom
	Thickness float64
	Epsilon   float64 // triangulation tolerance
}

// DefaultFloorOptions returns the stock slab settings.
func DefaultFloorOptions() FloorOptions {
	return FloorOptions{
		Lift:      DefaultLift,
		Thickness: DefaultThickness,
		Epsilon:   DefaultEpsilon,
	}
}

func (o FloorOptions) withDefaults() FloorOptions {
	if o.Thickness <= 0 {
		o.Thickness = DefaultThickness
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	return o
}

// BuildFloor triangulates loop and extrudes it into a world-space slab from
// base+Lift to base+Lift+Thickness, where base is the height of the first
// corner. Returns nil when the loop cannot be triangulated.
func BuildFloor(loop []math.Vec3, opts FloorOptions) *mesh.Mesh {
	if len(loop) == 0 {
		return nil
	}
	opts = opts.withDefaults()

	tris := Triangulate(loop, WithEpsilon(opts.Epsilon))
	if len(tris) == 0 {
		return nil
	}

	bottom := loop[0].Y + opts.Lift
	floor := mesh.Extrude(uuid.Nil, loop, tris, bottom, bottom+opts.Thickness)
	floor.FillColor(mesh.White)
	return floor
}

// BuildCutter extrudes the loop footprint over the floor slab height plus a
// vertical margin on both sides. Subtracting it from another floor removes
// the plan overlap without coplanar faces.
func BuildCutter(loop []math.Vec3, opts FloorOptions, margin float64) *mesh.Mesh {
	if len(loop) == 0 {
		return nil
	}
	opts = opts.withDefaults()

	tris := Triangulate(loop, WithEpsilon(opts.Epsilon))
	if len(tris) == 0 {
		return nil
	}

	bottom := loop[0].Y + opts.Lift - margin
	top := loop[0].Y + opts.Lift + opts.Thickness + margin
	return mesh.Extrude(uuid.Nil, loop, tris, bottom, top)
}
