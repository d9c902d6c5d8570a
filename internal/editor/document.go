package editor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/floorplan/internal/room"
	"github.com/Faultbox/floorplan/internal/wall"
	"github.com/Faultbox/floorplan/pkg/math"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

// ErrInvalidDocument is returned when a document cannot be replayed.
var ErrInvalidDocument = errors.New("invalid plan document")

// Point is a plain-data world position.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y,omitempty" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Vec3 converts the point to a vector.
func (p Point) Vec3() math.Vec3 {
	return math.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// PointOf converts a vector to a point.
func PointOf(v math.Vec3) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z}
}

func pointsFrom(vs []math.Vec3) []Point {
	out := make([]Point, len(vs))
	for i, v := range vs {
		out[i] = PointOf(v)
	}
	return out
}

// WallSize is the cross-section of a wall.
type WallSize struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Chain is one run of corners placed in a single sequence. Walls holds the
// size of each wall between consecutive corners; missing entries use the
// document defaults.
type Chain struct {
	Points []Point    `yaml:"points" json:"points"`
	Walls  []WallSize `yaml:"walls,omitempty" json:"walls,omitempty"`
}

// OpeningSpec places an opening on a wall. Wall is the wall's creation
// index within the document.
type OpeningSpec struct {
	Wall      int       `yaml:"wall" json:"wall"`
	Kind      wall.Kind `yaml:"kind" json:"kind"`
	Offset    float64   `yaml:"offset,omitempty" json:"offset"`
	Elevation *float64  `yaml:"elevation,omitempty" json:"elevation,omitempty"`
}

// PaintSpec colours a wall region. Color is "#rrggbb".
type PaintSpec struct {
	Wall   int         `yaml:"wall" json:"wall"`
	Region wall.Region `yaml:"region" json:"region"`
	Color  string      `yaml:"color" json:"color"`
}

// MoveSpec slides a placed wall. Chain is the number of chains finalized
// before the move; replay applies the move before that chain.
type MoveSpec struct {
	Wall  int   `yaml:"wall" json:"wall"`
	Delta Point `yaml:"delta" json:"delta"`
	Chain int   `yaml:"chain" json:"chain"`
}

// Document is a plain-data snapshot of a session.
//
// Replaying a document rebuilds the chains in order, applying each wall move
// before the chain that followed it, then the open draft chain, then
// openings, paint and finally wall deletions. Walls are numbered in creation
// order across all chains, starting at 0.
type Document struct {
	Name     string        `yaml:"name,omitempty" json:"name,omitempty"`
	Defaults WallSize      `yaml:"defaults" json:"defaults"`
	Chains   []Chain       `yaml:"chains,omitempty" json:"chains,omitempty"`
	Draft    *Chain        `yaml:"draft,omitempty" json:"draft,omitempty"`
	Openings []OpeningSpec `yaml:"openings,omitempty" json:"openings,omitempty"`
	Paint    []PaintSpec   `yaml:"paint,omitempty" json:"paint,omitempty"`
	Moves    []MoveSpec    `yaml:"moves,omitempty" json:"moves,omitempty"`
	Deleted  []int         `yaml:"deleted,omitempty" json:"deleted,omitempty"`
}

// ParseDocument decodes a YAML or JSON plan document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding plan document: %w", err)
	}
	return &doc, nil
}

// ReadDocument loads a plan document from a file.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// ParseColor decodes a "#rrggbb" colour.
func ParseColor(s string) (mesh.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return mesh.Color{}, fmt.Errorf("color %q: expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mesh.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return mesh.ColorFromHex(uint32(v)), nil
}

// FormatColor encodes a colour as "#rrggbb".
func FormatColor(c mesh.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}

// Document captures the session as plain data.
func (e *Editor) Document() *Document {
	doc := &Document{
		Defaults: WallSize{Width: e.settings.WallWidth, Height: e.settings.WallHeight},
	}
	for _, c := range e.chains {
		doc.Chains = append(doc.Chains, Chain{
			Points: append([]Point(nil), c.Points...),
			Walls:  append([]WallSize(nil), c.Walls...),
		})
	}
	if len(e.corners) > 0 {
		doc.Draft = &Chain{
			Points: pointsFrom(e.corners),
			Walls:  append([]WallSize(nil), e.sizes...),
		}
	}

	for i, w := range e.history {
		if w.Deleted() {
			continue
		}
		for _, o := range w.Openings() {
			elevation := o.Elevation()
			doc.Openings = append(doc.Openings, OpeningSpec{
				Wall:      i,
				Kind:      o.Kind,
				Offset:    o.Offset(),
				Elevation: &elevation,
			})
		}
		for _, region := range []wall.Region{wall.Inside, wall.Outside} {
			if c, ok := w.Color(region); ok {
				doc.Paint = append(doc.Paint, PaintSpec{Wall: i, Region: region, Color: FormatColor(c)})
			}
		}
	}

	doc.Moves = append([]MoveSpec(nil), e.moves...)

	doc.Deleted = append([]int(nil), e.deleted...)
	return doc
}

// Apply replays a document on top of the session. Wall indices in the
// document are relative to the first wall it creates.
func (e *Editor) Apply(doc *Document) error {
	if e.closed {
		return ErrClosed
	}
	if doc == nil {
		return ErrInvalidDocument
	}

	defaults := doc.Defaults
	if defaults.Width <= 0 || defaults.Height <= 0 {
		defaults = WallSize{Width: e.settings.WallWidth, Height: e.settings.WallHeight}
	}
	base := len(e.history)

	wallAt := func(idx int) (*wall.Wall, error) {
		if idx < 0 || base+idx >= len(e.history) {
			return nil, fmt.Errorf("wall index %d: %w", idx, ErrInvalidDocument)
		}
		return e.history[base+idx], nil
	}

	next := 0
	moveUpTo := func(chain int) error {
		for ; next < len(doc.Moves) && doc.Moves[next].Chain <= chain; next++ {
			m := doc.Moves[next]
			w, err := wallAt(m.Wall)
			if err != nil {
				return fmt.Errorf("move %d: %w", next, err)
			}
			if err := e.MoveWall(w.ID, m.Delta.Vec3()); err != nil {
				return fmt.Errorf("move %d: %w", next, err)
			}
		}
		return nil
	}

	for i, c := range doc.Chains {
		if err := moveUpTo(i); err != nil {
			return err
		}
		if err := e.replayChain(c, defaults, 2); err != nil {
			return fmt.Errorf("chain %d: %w", i, err)
		}
		if _, err := e.FinalizeChain(); err != nil &&
			!errors.Is(err, room.ErrUnclosable) && !errors.Is(err, room.ErrDegenerateFloor) {
			return fmt.Errorf("chain %d: %w", i, err)
		}
	}
	if err := moveUpTo(len(doc.Chains)); err != nil {
		return err
	}
	if next < len(doc.Moves) {
		return fmt.Errorf("move %d: chain %d: %w", next, doc.Moves[next].Chain, ErrInvalidDocument)
	}
	if doc.Draft != nil {
		if err := e.replayChain(*doc.Draft, defaults, 1); err != nil {
			return fmt.Errorf("draft chain: %w", err)
		}
	}

	for i, spec := range doc.Openings {
		w, err := wallAt(spec.Wall)
		if err != nil {
			return fmt.Errorf("opening %d: %w", i, err)
		}
		kind, err := wall.ParseKind(string(spec.Kind))
		if err != nil {
			return fmt.Errorf("opening %d: %w", i, err)
		}
		opts := []wall.OpeningOption{wall.WithOffset(spec.Offset)}
		if spec.Elevation != nil {
			opts = append(opts, wall.WithElevation(*spec.Elevation))
		}
		if _, err := w.AddOpening(kind, opts...); err != nil {
			return fmt.Errorf("opening %d: %w", i, err)
		}
	}

	for i, spec := range doc.Paint {
		w, err := wallAt(spec.Wall)
		if err != nil {
			return fmt.Errorf("paint %d: %w", i, err)
		}
		c, err := ParseColor(spec.Color)
		if err != nil {
			return fmt.Errorf("paint %d: %w", i, err)
		}
		w.ApplyColor(c, spec.Region)
	}

	for _, idx := range doc.Deleted {
		w, err := wallAt(idx)
		if err != nil {
			return fmt.Errorf("deletion: %w", err)
		}
		if err := e.DeleteWall(w.ID); err != nil {
			return fmt.Errorf("deleting wall %d: %w", idx, err)
		}
	}

	e.settings.WallWidth = defaults.Width
	e.settings.WallHeight = defaults.Height
	return nil
}

func (e *Editor) replayChain(c Chain, defaults WallSize, minPoints int) error {
	if len(c.Points) < minPoints {
		return ErrShortChain
	}
	for i, p := range c.Points {
		size := defaults
		if i > 0 && i-1 < len(c.Walls) && c.Walls[i-1].Width > 0 && c.Walls[i-1].Height > 0 {
			size = c.Walls[i-1]
		}
		e.settings.WallWidth = size.Width
		e.settings.WallHeight = size.Height
		if _, err := e.AddCorner(p.Vec3()); err != nil {
			return fmt.Errorf("corner %d: %w", i, err)
		}
	}
	return nil
}
