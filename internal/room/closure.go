// Package room closes chains of walls into rooms: it routes the missing part
// of a loop over already placed walls, triangulates the loop and builds the
// floor slab.
package room

import (
	"container/heap"

	"github.com/google/uuid"

	"github.com/Faultbox/floorplan/pkg/math"
)

// SnapTolerance is the distance under which two wall endpoints are one node.
const SnapTolerance = 1e-6

// Segment is a placed wall seen as a graph edge.
type Segment struct {
	ID   uuid.UUID
	A, B math.Vec3
}

// Length returns the edge weight.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// Route is a shortest path over placed walls.
type Route struct {
	Points   []math.Vec3
	Segments []uuid.UUID
	Length   float64
}

// Empty reports whether no path was found.
func (r Route) Empty() bool {
	return len(r.Points) == 0
}

// PathNode represents a node in the A* search.
type PathNode struct {
	Vertex int
	G      float64 // Cost from start
	H      float64 // Heuristic (estimated cost to goal)
	F      float64 // Total cost (G + H)
	Parent *PathNode
	Via    int // Segment used to reach this node, -1 for the start
	Index  int // Index in heap
	seq    int
}

// PathHeap implements a priority queue for A* pathfinding.
// Ties on F are broken by insertion order.
type PathHeap []*PathNode

func (h PathHeap) Len() int { return len(h) }
func (h PathHeap) Less(i, j int) bool {
	if h[i].F != h[j].F {
		return h[i].F < h[j].F
	}
	return h[i].seq < h[j].seq
}
func (h PathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *PathHeap) Push(x interface{}) {
	n := len(*h)
	node := x.(*PathNode)
	node.Index = n
	*h = append(*h, node)
}

func (h *PathHeap) Pop() interface{} {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*h = old[0 : n-1]
	return node
}

type edge struct {
	to      int
	segment int
	cost    float64
}

// PathFinder searches the graph formed by placed walls. Nodes are distinct
// endpoints and edges are walls weighted by length.
type PathFinder struct {
	segments []Segment
	vertices []math.Vec3
	adjacent [][]edge
}

// NewPathFinder builds the wall graph.
func NewPathFinder(segments []Segment) *PathFinder {
	pf := &PathFinder{segments: segments}
	for i, s := range segments {
		a := pf.vertex(s.A, true)
		b := pf.vertex(s.B, true)
		if a == b {
			continue
		}
		cost := s.Length()
		pf.adjacent[a] = append(pf.adjacent[a], edge{to: b, segment: i, cost: cost})
		pf.adjacent[b] = append(pf.adjacent[b], edge{to: a, segment: i, cost: cost})
	}
	return pf
}

// vertex returns the node index for p, optionally adding it.
func (pf *PathFinder) vertex(p math.Vec3, add bool) int {
	for i, v := range pf.vertices {
		if v.ApproxEqual(p, SnapTolerance) {
			return i
		}
	}
	if !add {
		return -1
	}
	pf.vertices = append(pf.vertices, p)
	pf.adjacent = append(pf.adjacent, nil)
	return len(pf.vertices) - 1
}

// Route finds the shortest path from start to goal. The returned route is
// empty when either point is not a wall endpoint or no path exists.
func (pf *PathFinder) Route(start, goal math.Vec3) Route {
	if pf == nil {
		return Route{}
	}
	s := pf.vertex(start, false)
	g := pf.vertex(goal, false)
	if s < 0 || g < 0 {
		return Route{}
	}
	goalPos := pf.vertices[g]

	openSet := &PathHeap{}
	heap.Init(openSet)

	closedSet := make(map[int]bool)
	nodeMap := make(map[int]*PathNode)
	seq := 0

	startNode := &PathNode{
		Vertex: s,
		H:      pf.vertices[s].Distance(goalPos),
		Via:    -1,
	}
	startNode.F = startNode.G + startNode.H
	heap.Push(openSet, startNode)
	nodeMap[s] = startNode

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*PathNode)

		if current.Vertex == g {
			return pf.reconstructRoute(current)
		}

		closedSet[current.Vertex] = true

		for _, e := range pf.adjacent[current.Vertex] {
			if closedSet[e.to] {
				continue
			}

			cost := current.G + e.cost

			neighbor, exists := nodeMap[e.to]
			if !exists {
				seq++
				neighbor = &PathNode{
					Vertex: e.to,
					G:      cost,
					H:      pf.vertices[e.to].Distance(goalPos),
					Parent: current,
					Via:    e.segment,
					seq:    seq,
				}
				neighbor.F = neighbor.G + neighbor.H
				nodeMap[e.to] = neighbor
				heap.Push(openSet, neighbor)
			} else if cost < neighbor.G {
				neighbor.G = cost
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				neighbor.Via = e.segment
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return Route{}
}

func (pf *PathFinder) reconstructRoute(node *PathNode) Route {
	r := Route{Length: node.G}
	for node != nil {
		r.Points = append(r.Points, pf.vertices[node.Vertex])
		if node.Via >= 0 {
			r.Segments = append(r.Segments, pf.segments[node.Via].ID)
		}
		node = node.Parent
	}
	// Reverse (it's built from goal to start)
	for i, j := 0, len(r.Points)-1; i < j; i, j = i+1, j-1 {
		r.Points[i], r.Points[j] = r.Points[j], r.Points[i]
	}
	for i, j := 0, len(r.Segments)-1; i < j; i, j = i+1, j-1 {
		r.Segments[i], r.Segments[j] = r.Segments[j], r.Segments[i]
	}
	return r
}

// FindClosingPath returns the shortest point sequence from start to end over
// the given walls, both ends included, or an empty slice if none exists.
func FindClosingPath(start, end math.Vec3, segments []Segment) []math.Vec3 {
	r := NewPathFinder(segments).Route(start, end)
	if r.Empty() {
		return []math.Vec3{}
	}
	return r.Points
}
