package robot

import (
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-biolab/game/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 17, 13, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func newMissionRobot(t *testing.T) (*field.Field, *Robot) {
	t.Helper()
	f := field.New()
	f.ApplyMission(field.BioLab())
	return f, New(f, fixedClock)
}

func snakePath() []field.Position {
	var path []field.Position
	for y := 0; y < field.Height; y++ {
		for i := 0; i < field.Width; i++ {
			x := i
			if y%2 == 1 {
				x = field.Width - 1 - i
			}
			path = append(path, field.Position{X: x, Y: y})
		}
	}
	return path
}

func TestNew(t *testing.T) {
	f, r := newMissionRobot(t)

	assert.Equal(t, field.Origin, r.Position())
	assert.True(t, r.MovingRight())
	assert.False(t, r.Exhausted())

	pos, ok := f.Occupant()
	require.True(t, ok)
	assert.Equal(t, field.Origin, pos)

	journal := r.Journal()
	require.Len(t, journal, 1)
	assert.Equal(t, "[13:04:05] Mission started at (0,0).", journal[0].String())
}

func TestSnake(t *testing.T) {
	t.Run("visits every cell exactly once", func(t *testing.T) {
		pos, movingRight := field.Origin, true
		visited := []field.Position{pos}
		seen := map[field.Position]int{pos: 1}

		for {
			next, nextMovingRight, ok := Snake(pos, movingRight)
			if !ok {
				break
			}
			if next.Y != pos.Y {
				assert.NotEqual(t, movingRight, nextMovingRight, "direction must flip on a row change")
				assert.Equal(t, pos.X, next.X)
				assert.Equal(t, pos.Y+1, next.Y)
			} else {
				assert.Equal(t, movingRight, nextMovingRight, "direction must hold within a row")
			}
			pos, movingRight = next, nextMovingRight
			visited = append(visited, pos)
			seen[pos]++
			require.LessOrEqual(t, len(visited), field.Width*field.Height)
		}

		assert.Equal(t, snakePath(), visited)
		assert.Len(t, seen, field.Width*field.Height)
		for p, n := range seen {
			assert.Equalf(t, 1, n, "cell %v", p)
		}
	})

	t.Run("ends on the top row edge", func(t *testing.T) {
		_, _, ok := Snake(field.Position{X: field.Width - 1, Y: field.Height - 1}, true)
		assert.False(t, ok)
		_, _, ok = Snake(field.Position{X: 0, Y: field.Height - 1}, false)
		assert.False(t, ok)
	})
}

func TestProcessCurrentCell(t *testing.T) {
	cases := []struct {
		name    string
		start   field.CellType
		want    field.CellType
		entries int
	}{
		{"plant cascades to processed", field.Plant, field.Processed, 2},
		{"tube becomes processed", field.Tube, field.Processed, 1},
		{"lab is left alone", field.Lab, field.Lab, 0},
		{"container is left alone", field.Container, field.Container, 0},
		{"finish is logged only", field.Finish, field.Finish, 1},
		{"water is ignored", field.Water, field.Water, 0},
		{"processed is ignored", field.Processed, field.Processed, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := field.New()
			r := New(f, fixedClock)
			f.SetType(0, 0, tc.start)

			before := len(r.Journal())
			r.ProcessCurrentCell()

			got, _ := f.TypeAt(0, 0)
			assert.Equal(t, tc.want, got)
			assert.Len(t, r.Journal(), before+tc.entries)
		})
	}

	t.Run("plant cascade messages are ordered", func(t *testing.T) {
		f := field.New()
		r := New(f, fixedClock)
		f.SetType(0, 0, field.Plant)
		r.ProcessCurrentCell()

		journal := r.Journal()
		require.Len(t, journal, 3)
		assert.Equal(t, "Cell (0,0): plant found, converting to tube.", journal[1].Message)
		assert.Equal(t, "Cell (0,0): tube found, converting to processed.", journal[2].Message)
	})
}

func TestStep(t *testing.T) {
	t.Run("follows the snake path", func(t *testing.T) {
		_, r := newMissionRobot(t)
		for _, want := range snakePath()[1:] {
			require.True(t, r.Step())
			assert.Equal(t, want, r.Position())
		}
	})

	t.Run("moves occupancy with the robot", func(t *testing.T) {
		f, r := newMissionRobot(t)
		require.True(t, r.Step())

		assert.False(t, f.Cell(0, 0).Occupied)
		assert.True(t, f.Cell(1, 0).Occupied)

		n := 0
		for _, row := range f.Rows() {
			for _, c := range row {
				if c.Occupied {
					n++
				}
			}
		}
		assert.Equal(t, 1, n)
	})

	t.Run("warns but does not block on restricted cells", func(t *testing.T) {
		_, r := newMissionRobot(t)
		for i := 0; i < 3; i++ {
			require.True(t, r.Step())
		}

		assert.Equal(t, field.Position{X: 3, Y: 0}, r.Position())
		journal := r.Journal()
		assert.Equal(t, "Moved to (3,0). Type: Lab", journal[len(journal)-2].Message)
		assert.Equal(t, "Forbidden move onto Lab at (3,0)!", journal[len(journal)-1].Message)
	})

	t.Run("completes the mission after 24 steps", func(t *testing.T) {
		f, r := newMissionRobot(t)
		pending := []field.Position{{X: 1, Y: 4}, {X: 3, Y: 3}, {X: 1, Y: 3}, {X: 1, Y: 2}, {X: 2, Y: 1}}

		completedAt := -1
		for i := 1; i <= field.Width*field.Height-1; i++ {
			require.True(t, r.Step(), "step %d", i)
			if r.IsComplete() && completedAt < 0 {
				completedAt = i
			}
			if completedAt > 0 {
				assert.True(t, r.IsComplete(), "completion must be monotone")
			}
		}

		assert.Equal(t, field.Width*field.Height-1, completedAt)
		assert.Equal(t, field.Position{X: 4, Y: 4}, r.Position())
		assert.True(t, r.IsComplete())
		for _, p := range pending {
			got, _ := f.TypeAt(p.X, p.Y)
			assert.Equalf(t, field.Processed, got, "cell %v", p)
		}

		journalLen := len(r.Journal())
		assert.False(t, r.Step())
		assert.False(t, r.Step())
		assert.Len(t, r.Journal(), journalLen)
		assert.True(t, r.IsComplete())
		assert.False(t, r.Exhausted())
	})

	t.Run("reports an exhausted scan once", func(t *testing.T) {
		f, r := newMissionRobot(t)
		for i := 0; i < field.Width*field.Height-2; i++ {
			require.True(t, r.Step())
		}
		f.SetType(1, 4, field.Plant)

		require.True(t, r.Step())
		assert.Equal(t, field.Position{X: 4, Y: 4}, r.Position())
		assert.False(t, r.IsComplete())

		assert.False(t, r.Step())
		assert.True(t, r.Exhausted())
		journal := r.Journal()
		assert.Equal(t, "Cell (4,4): finish reached!", journal[len(journal)-2].Message)
		assert.Equal(t, "Scan finished.", journal[len(journal)-1].Message)

		assert.False(t, r.Step())
		assert.Len(t, r.Journal(), len(journal))
	})
}

func TestCurrentCellInvariant(t *testing.T) {
	r := &Robot{field: field.New(), pos: field.Position{X: field.Width, Y: 0}, now: fixedClock}
	assert.PanicsWithError(t, "robot is not standing on a cell: (5,0)", func() {
		r.ProcessCurrentCell()
	})
}

func TestFormatJournal(t *testing.T) {
	entries := []Entry{
		{Time: fixedTime, Message: "a"},
		{Time: fixedTime.Add(61 * time.Second), Message: "b"},
	}
	assert.Equal(t, []string{"[13:04:05] a", "[13:05:06] b"}, FormatJournal(entries))
}
