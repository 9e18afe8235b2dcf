// Package legend builds the category legend and decides how it shares space
// with the map.
package legend

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidPosition is returned by ParsePosition for unknown names.
var ErrInvalidPosition = errors.New("legend: invalid position")

// Position is where the legend sits relative to the map.
type Position int

const (
	Top Position = iota
	Bottom
	Left
	Right
)

var positionNames = [...]string{"Top", "Bottom", "Left", "Right"}

func (p Position) String() string {
	if p < Top || p > Right {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// ParsePosition parses a position name, ignoring case.
func ParsePosition(s string) (Position, error) {
	for i, n := range positionNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Position(i), nil
		}
	}
	return Top, fmt.Errorf("%w: %q", ErrInvalidPosition, s)
}

// Next cycles Top, Bottom, Left, Right.
func (p Position) Next() Position { return (p + 1) % 4 }

// Vertical reports whether the legend is a side column.
func (p Position) Vertical() bool { return p == Left || p == Right }

// Entry is one legend row.
type Entry struct {
	Label string
	Color colorful.Color
	Key   string
}

// Legend is everything the legend collaborator needs to draw.
type Legend struct {
	Title    string
	Entries  []Entry
	Position Position
	// Visible is false when the legend is toggled off or no legend column is bound.
	Visible  bool
	FontSize float64
}

// Options carries the legend settings.
type Options struct {
	Show      bool
	ShowTitle bool
	TitleText string
	Position  Position
	FontSize  float64
}

// fallbackTitle is used when the legend column has no display name.
const fallbackTitle = "Legend"

// Build collects the distinct categories, sorts them and colors each with
// colorOf. bound reports whether a legend column exists; columnName is its
// display name.
func Build(categories []string, bound bool, columnName string, opts Options, colorOf func(string) colorful.Color) Legend {
	l := Legend{Position: opts.Position, FontSize: opts.FontSize}
	if !bound || !opts.Show {
		return l
	}
	l.Visible = true
	if opts.ShowTitle {
		l.Title = strings.TrimSpace(opts.TitleText)
		if l.Title == "" {
			l.Title = columnName
		}
		if l.Title == "" {
			l.Title = fallbackTitle
		}
	}

	distinct := slices.Clone(categories)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	for _, c := range distinct {
		l.Entries = append(l.Entries, Entry{Label: c, Color: colorOf(c), Key: c})
	}
	return l
}

// Rect is a pane in viewport units.
type Rect struct {
	X, Y, W, H float64
}

// Panes splits a viewport between legend and map.
type Panes struct {
	Legend Rect
	Map    Rect
}

// Layout gives the legend a side column of sideWidth or a band of bandHeight
// and the map the rest. A hidden legend leaves the whole viewport to the map.
func Layout(l Legend, width, height, sideWidth, bandHeight float64) Panes {
	full := Rect{W: width, H: height}
	if !l.Visible {
		return Panes{Map: full}
	}
	sideWidth = min(sideWidth, width)
	bandHeight = min(bandHeight, height)
	switch l.Position {
	case Left:
		return Panes{
			Legend: Rect{W: sideWidth, H: height},
			Map:    Rect{X: sideWidth, W: width - sideWidth, H: height},
		}
	case Right:
		return Panes{
			Legend: Rect{X: width - sideWidth, W: sideWidth, H: height},
			Map:    Rect{W: width - sideWidth, H: height},
		}
	case Bottom:
		return Panes{
			Legend: Rect{Y: height - bandHeight, W: width, H: bandHeight},
			Map:    Rect{W: width, H: height - bandHeight},
		}
	default:
		return Panes{
			Legend: Rect{W: width, H: bandHeight},
			Map:    Rect{Y: bandHeight, W: width, H: height - bandHeight},
		}
	}
}
