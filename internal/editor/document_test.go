package editor

import (
	"errors"
	"testing"

	"github.com/Faultbox/floorplan/internal/wall"
	"github.com/Faultbox/floorplan/pkg/mesh"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    mesh.Color
		wantErr bool
	}{
		{"#ff0000", mesh.Color{R: 1}, false},
		{"00ff00", mesh.Color{G: 1}, false},
		{"#ffffff", mesh.White, false},
		{"#fff", mesh.Color{}, true},
		{"#zzzzzz", mesh.Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.ApproxEqual(tt.want, 1e-9) {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if s := FormatColor(mesh.Color{R: 1, B: 1}); s != "#ff00ff" {
		t.Errorf("expected #ff00ff, got %s", s)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	e := New(DefaultSettings())
	defer e.Close()

	walls, _ := squareRoom(t, e)
	placeChain(t, e, v(3, 0), v(6, 0), v(6, 4), v(3, 4))
	if _, err := e.FinalizeChain(); err != nil {
		t.Fatalf("FinalizeChain failed: %v", err)
	}
	if _, err := e.AddOpening(walls[0].ID, wall.KindDoor, wall.WithOffset(-0.5)); err != nil {
		t.Fatalf("AddOpening failed: %v", err)
	}
	e.Paint(walls[2].ID, wall.Inside, mesh.Color{R: 1})
	if err := e.DeleteWall(walls[3].ID); err != nil {
		t.Fatalf("DeleteWall failed: %v", err)
	}
	placeChain(t, e, v(10, 0), v(12, 0))

	data, err := e.Document().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	replay := New(DefaultSettings())
	defer replay.Close()
	if err := replay.Apply(doc); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	want, got := e.Summary(), replay.Summary()
	if len(got.Walls) != len(want.Walls) {
		t.Fatalf("expected %d walls, got %d", len(want.Walls), len(got.Walls))
	}
	if len(got.Rooms) != len(want.Rooms) {
		t.Fatalf("expected %d rooms, got %d", len(want.Rooms), len(got.Rooms))
	}
	for i := range want.Walls {
		w, g := want.Walls[i], got.Walls[i]
		if w.Index != g.Index || w.P1 != g.P1 || w.P2 != g.P2 || w.Pending != g.Pending {
			t.Errorf("wall %d: expected %+v, got %+v", i, w, g)
		}
		if len(w.Openings) != len(g.Openings) {
			t.Errorf("wall %d: expected %d openings, got %d", i, len(w.Openings), len(g.Openings))
		}
		if w.Paint[string(wall.Inside)] != g.Paint[string(wall.Inside)] {
			t.Errorf("wall %d: expected paint %v, got %v", i, w.Paint, g.Paint)
		}
	}
	for i := range want.Rooms {
		if !approx(want.Rooms[i].Area, got.Rooms[i].Area) {
			t.Errorf("room %d: expected area %f, got %f", i, want.Rooms[i].Area, got.Rooms[i].Area)
		}
	}
	if len(got.Chain) != 2 {
		t.Errorf("expected draft chain of 2 corners, got %d", len(got.Chain))
	}
}

func TestApplyHandWritten(t *testing.T) {
	data := []byte(`
name: studio
defaults:
  width: 0.25
  height: 2.5
chains:
  - points:
      - {x: 0, z: 0}
      - {x: 5, z: 0}
      - {x: 5, z: 4}
      - {x: 0, z: 4}
      - {x: 0, z: 0}
openings:
  - wall: 0
    kind: cross
  - wall: 2
    kind: door
    offset: 1.5
paint:
  - wall: 1
    region: outsideLayer
    color: "#336699"
`)

	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if doc.Name != "studio" {
		t.Errorf("expected name studio, got %s", doc.Name)
	}

	e := New(DefaultSettings())
	defer e.Close()
	if err := e.Apply(doc); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	walls := e.Walls()
	if len(walls) != 4 {
		t.Fatalf("expected 4 walls, got %d", len(walls))
	}
	if walls[0].Width != 0.25 || walls[0].Height != 2.5 {
		t.Errorf("expected document defaults, got %fx%f", walls[0].Width, walls[0].Height)
	}
	if len(e.Rooms()) != 1 || !approx(e.Rooms()[0].Area(), 20) {
		t.Errorf("expected one 20 m2 room, got %d rooms", len(e.Rooms()))
	}
	door := walls[2].Openings()
	if len(door) != 1 || door[0].Kind != wall.KindDoor || door[0].Offset() != 1.5 {
		t.Errorf("expected door at offset 1.5 on wall 2, got %v", door)
	}
	if c, ok := walls[1].Color(wall.Outside); !ok || FormatColor(c) != "#336699" {
		t.Errorf("expected #336699 outside paint, got %v", c)
	}
}

func TestApplyInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{"nil", nil},
		{"wall index", &Document{
			Chains:   []Chain{{Points: []Point{{X: 0}, {X: 2}}}},
			Openings: []OpeningSpec{{Wall: 5, Kind: wall.KindPlain}},
		}},
		{"kind", &Document{
			Chains:   []Chain{{Points: []Point{{X: 0}, {X: 2}}}},
			Openings: []OpeningSpec{{Wall: 0, Kind: "skylight"}},
		}},
		{"color", &Document{
			Chains: []Chain{{Points: []Point{{X: 0}, {X: 2}}}},
			Paint:  []PaintSpec{{Wall: 0, Region: wall.Inside, Color: "red"}},
		}},
		{"short chain", &Document{
			Chains: []Chain{{Points: []Point{{X: 1}}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(DefaultSettings())
			defer e.Close()
			if err := e.Apply(tt.doc); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	e := New(DefaultSettings())
	defer e.Close()
	doc := &Document{
		Chains:   []Chain{{Points: []Point{{X: 0}, {X: 2}}}},
		Openings: []OpeningSpec{{Wall: 9, Kind: wall.KindPlain}},
	}
	if err := e.Apply(doc); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}
