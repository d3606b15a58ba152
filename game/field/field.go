/*
Package field models the fixed rectangular grid the robot biologist walks.

A Field is a Width x Height array of cells addressed by (x, y) with the origin in the
bottom-left corner and y increasing upward. Every cell carries a CellType and an
occupancy flag; at most one cell is occupied at a time.

Mutations are permissive: out-of-bound coordinates are ignored rather than reported.
*/
package field

import (
	"strings"
)

const (
	Width  = 5 // Number of columns.
	Height = 5 // Number of rows.
)

// Position addresses a cell.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Origin is where every mission starts.
var Origin = Position{X: 0, Y: 0}

// Cell represents a single cell of the field.
type Cell struct {
	X        int      // Column, fixed at creation.
	Y        int      // Row, fixed at creation.
	Type     CellType // Current type.
	Occupied bool     // True iff the robot stands here.
}

// Position returns the coordinates of the cell.
func (c *Cell) Position() Position {
	return Position{X: c.X, Y: c.Y}
}

// Field is the grid. The zero value is not usable; call New.
type Field struct {
	cells [Height][Width]Cell
}

// New creates a field filled with Water and no occupant.
func New() *Field {
	f := &Field{}
	for y := range f.cells {
		for x := range f.cells[y] {
			f.cells[y][x] = Cell{X: x, Y: y, Type: Water}
		}
	}
	return f
}

// InBound reports whether (x, y) addresses a cell.
func InBound(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// Cell returns the cell at (x, y), or nil when out of bounds.
func (f *Field) Cell(x, y int) *Cell {
	if !InBound(x, y) {
		return nil
	}
	return &f.cells[y][x]
}

// TypeAt returns the type at (x, y). ok is false when out of bounds.
func (f *Field) TypeAt(x, y int) (t CellType, ok bool) {
	c := f.Cell(x, y)
	if c == nil {
		return 0, false
	}
	return c.Type, true
}

// SetType overwrites the type at (x, y). Occupancy is left untouched.
func (f *Field) SetType(x, y int, t CellType) {
	if c := f.Cell(x, y); c != nil {
		c.Type = t
	}
}

// SetOccupied sets the occupancy flag at (x, y).
func (f *Field) SetOccupied(x, y int, occupied bool) {
	if c := f.Cell(x, y); c != nil {
		c.Occupied = occupied
	}
}

// ResetAll sets every cell to t and clears every occupancy flag.
func (f *Field) ResetAll(t CellType) {
	for y := range f.cells {
		for x := range f.cells[y] {
			f.cells[y][x].Type = t
			f.cells[y][x].Occupied = false
		}
	}
}

// ApplyMission resets the field to Water, lays out m and occupies the origin.
func (f *Field) ApplyMission(m Mission) {
	f.ResetAll(Water)
	for _, p := range m.Placements {
		f.SetType(p.X, p.Y, p.Type)
	}
	f.SetOccupied(Origin.X, Origin.Y, true)
}

// Any reports whether some cell satisfies pred.
func (f *Field) Any(pred func(CellType) bool) bool {
	for y := range f.cells {
		for x := range f.cells[y] {
			if pred(f.cells[y][x].Type) {
				return true
			}
		}
	}
	return false
}

// Count returns how many cells have type t.
func (f *Field) Count(t CellType) int {
	n := 0
	for y := range f.cells {
		for x := range f.cells[y] {
			if f.cells[y][x].Type == t {
				n++
			}
		}
	}
	return n
}

// Occupant returns the occupied cell position, if any.
func (f *Field) Occupant() (Position, bool) {
	for y := range f.cells {
		for x := range f.cells[y] {
			if f.cells[y][x].Occupied {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// Rows returns a copy of the cells indexed [y][x].
func (f *Field) Rows() [][]Cell {
	rows := make([][]Cell, Height)
	for y := range f.cells {
		rows[y] = make([]Cell, Width)
		copy(rows[y], f.cells[y][:])
	}
	return rows
}

// String draws the field with the top row first. The occupied cell is
// bracketed.
func (f *Field) String() string {
	var b strings.Builder

	border := "+" + strings.Repeat("--------+", Width) + "\n"
	b.WriteString(border)
	for y := Height - 1; y >= 0; y-- {
		b.WriteString("|")
		for x := 0; x < Width; x++ {
			c := f.cells[y][x]
			label := c.Type.Label()
			if c.Occupied {
				label = "[" + label + "]"
			}
			b.WriteString(center(label, 8))
			b.WriteString("|")
		}
		b.WriteString("\n")
		b.WriteString(border)
	}

	return b.String()
}

func center(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
