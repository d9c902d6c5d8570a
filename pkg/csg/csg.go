// Package csg implements boolean subtraction on triangle meshes.
//
// The Engine interface keeps the boolean backend replaceable. NewBSP returns
// the default implementation, a BSP-tree boolean working on world-space
// polygons.
package csg

import (
	"errors"
	"fmt"

	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// ErrNoGeometry is returned when an operand mesh has no position data.
var ErrNoGeometry = errors.New("csg: mesh has no geometry")

// EngineBSP names the BSP-tree engine.
const EngineBSP = "bsp"

// New returns the engine registered under name. An empty name selects the
// BSP engine.
func New(name string) (Engine, error) {
	switch name {
	case "", EngineBSP:
		return NewBSP(), nil
	}
	return nil, fmt.Errorf("csg: unknown engine %q", name)
}

// Solid is a world-space volume produced by an Engine.
type Solid interface {
	// Empty reports whether the solid has no boundary polygons.
	Empty() bool
	// Bounds returns the world-space bounding box of the solid.
	Bounds() mesh.Bounds
}

// Engine performs volumetric booleans on meshes.
type Engine interface {
	// FromMesh bakes m with its world transform into a solid.
	FromMesh(m *mesh.Mesh, world math.Mat4) (Solid, error)
	// Subtract returns the part of a not inside b. Operands are not mutated.
	Subtract(a, b Solid) Solid
	// ToMesh builds a new mesh expressed in the local space of world.
	ToMesh(s Solid, world math.Mat4) *mesh.Mesh
}

// SubtractMesh is a convenience wrapper running a full mesh-to-mesh subtraction.
// The result lives in the local space of aWorld.
func SubtractMesh(e Engine, a *mesh.Mesh, aWorld math.Mat4, b *mesh.Mesh, bWorld math.Mat4) (*mesh.Mesh, error) {
	sa, err := e.FromMesh(a, aWorld)
	if err != nil {
		return nil, err
	}
	sb, err := e.FromMesh(b, bWorld)
	if err != nil {
		return nil, err
	}
	out := e.ToMesh(e.Subtract(sa, sb), aWorld)
	out.Owner = a.Owner
	return out, nil
}
