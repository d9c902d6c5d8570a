package wall

import (
	"errors"
	"fmt"
)

// Kind identifies an opening type.
type Kind string

// Opening kinds.
const (
	KindPlain    Kind = "plain"
	KindCross    Kind = "cross"
	KindVertical Kind = "vertical"
	KindDoor     Kind = "door"
)

// ErrUnknownKind is returned for an opening kind outside Kinds.
var ErrUnknownKind = errors.New("unknown opening kind")

// Kinds lists every supported opening kind.
var Kinds = []Kind{KindPlain, KindCross, KindVertical, KindDoor}

// ParseKind converts a name to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// IsWindow reports whether the kind is a glazed window.
func (k Kind) IsWindow() bool {
	return k == KindPlain || k == KindCross || k == KindVertical
}

// FrameSize is the inner frame size of an opening.
type FrameSize struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Catalog maps opening kinds to frame sizes.
type Catalog map[Kind]FrameSize

// DefaultCatalog returns the stock frame sizes.
func DefaultCatalog() Catalog {
	return Catalog{
		KindPlain:    {Width: 1.0, Height: 1.0},
		KindCross:    {Width: 1.0, Height: 1.0},
		KindVertical: {Width: 1.0, Height: 1.0},
		KindDoor:     {Width: 0.9, Height: 1.8},
	}
}

// Frame returns the frame size for k, falling back to the stock size.
func (c Catalog) Frame(k Kind) FrameSize {
	if f, ok := c[k]; ok && f.Width > 0 && f.Height > 0 {
		return f
	}
	return DefaultCatalog()[k]
}
