package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField(t *testing.T) {
	t.Run("New fills the field with water", func(t *testing.T) {
		f := New()
		assert.Equal(t, Width*Height, f.Count(Water))
		_, occupied := f.Occupant()
		assert.False(t, occupied)

		for y, row := range f.Rows() {
			for x, c := range row {
				assert.Equal(t, x, c.X)
				assert.Equal(t, y, c.Y)
			}
		}
	})

	t.Run("SetType round trip for every in bound cell", func(t *testing.T) {
		f := New()
		for y := 0; y < Height; y++ {
			for x := 0; x < Width; x++ {
				for _, ct := range CellTypes() {
					f.SetType(x, y, ct)
					got, ok := f.TypeAt(x, y)
					require.True(t, ok)
					assert.Equal(t, ct, got)
				}
			}
		}
	})

	t.Run("SetType out of bounds leaves the field unchanged", func(t *testing.T) {
		f := New()
		f.ApplyMission(BioLab())
		before := f.Rows()

		for _, p := range []Position{{-1, 0}, {0, -1}, {Width, 0}, {0, Height}, {Width, Height}, {-3, 9}} {
			f.SetType(p.X, p.Y, Plant)
			_, ok := f.TypeAt(p.X, p.Y)
			assert.False(t, ok)
			assert.Nil(t, f.Cell(p.X, p.Y))
		}

		assert.Equal(t, before, f.Rows())
	})

	t.Run("SetType does not touch occupancy", func(t *testing.T) {
		f := New()
		f.SetOccupied(2, 2, true)
		f.SetType(2, 2, Lab)
		assert.True(t, f.Cell(2, 2).Occupied)
	})

	t.Run("ResetAll clears types and occupancy", func(t *testing.T) {
		f := New()
		f.ApplyMission(BioLab())
		f.ResetAll(Processed)

		assert.Equal(t, Width*Height, f.Count(Processed))
		_, occupied := f.Occupant()
		assert.False(t, occupied)
	})

	t.Run("String brackets the occupied cell", func(t *testing.T) {
		f := New()
		f.ApplyMission(BioLab())
		out := f.String()

		assert.Contains(t, out, "[WATER]")
		assert.Contains(t, out, "FINISH")
		assert.Equal(t, 2*Height+1, len(splitLines(out)))
	})
}

func TestApplyMission(t *testing.T) {
	expected := map[Position]CellType{
		{4, 4}: Finish, {3, 4}: Lab, {2, 4}: Container, {1, 4}: Plant,
		{3, 3}: Plant, {1, 3}: Tube,
		{3, 2}: Container, {1, 2}: Plant, {0, 2}: Lab,
		{2, 1}: Tube,
		{4, 0}: Container, {3, 0}: Lab,
	}

	t.Run("lays out the bio lab mission", func(t *testing.T) {
		f := New()
		f.ApplyMission(BioLab())

		for y := 0; y < Height; y++ {
			for x := 0; x < Width; x++ {
				want, ok := expected[Position{x, y}]
				if !ok {
					want = Water
				}
				got, _ := f.TypeAt(x, y)
				assert.Equalf(t, want, got, "cell (%d,%d)", x, y)
			}
		}

		pos, occupied := f.Occupant()
		require.True(t, occupied)
		assert.Equal(t, Origin, pos)
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := New()
		f.ApplyMission(BioLab())
		once := f.Rows()

		f.SetType(1, 4, Processed)
		f.SetOccupied(0, 0, false)
		f.SetOccupied(3, 3, true)

		f.ApplyMission(BioLab())
		f.ApplyMission(BioLab())
		assert.Equal(t, once, f.Rows())
	})
}

func TestParseMission(t *testing.T) {
	t.Run("rejects out of bound placements", func(t *testing.T) {
		_, err := ParseMission([]byte("name: bad\nplacements:\n  - {x: 5, y: 0, type: LAB}\n"))
		assert.ErrorIs(t, err, ErrPlacementOutOfBounds)
	})

	t.Run("rejects duplicate placements", func(t *testing.T) {
		_, err := ParseMission([]byte("name: bad\nplacements:\n  - {x: 1, y: 1, type: LAB}\n  - {x: 1, y: 1, type: TUBE}\n"))
		assert.ErrorIs(t, err, ErrDuplicatePlacement)
	})

	t.Run("rejects unknown cell types", func(t *testing.T) {
		_, err := ParseMission([]byte("name: bad\nplacements:\n  - {x: 1, y: 1, type: LAVA}\n"))
		assert.ErrorIs(t, err, ErrUnknownCellType)
	})

	t.Run("BioLab returns an independent copy", func(t *testing.T) {
		m := BioLab()
		m.Placements[0].Type = Water
		assert.NotEqual(t, Water, BioLab().Placements[0].Type)
		assert.Len(t, BioLab().Placements, 12)
	})
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}
