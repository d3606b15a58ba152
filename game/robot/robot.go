// Package robot implements the robot biologist: a single agent that scans the
// field in a snake pattern, converts plants and tubes into processed samples and
// keeps a timestamped journal of everything it does.
package robot

import (
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-biolab/game/field"
)

// ErrNoCurrentCell means the robot position does not address a cell.
// A robot built with New never reaches this state.
var ErrNoCurrentCell = errors.New("robot is not standing on a cell")

// Clock supplies journal timestamps.
type Clock func() time.Time

// Robot walks a field one step at a time.
type Robot struct {
	field       *field.Field
	pos         field.Position
	movingRight bool
	exhausted   bool // scan ran out of cells before the mission completed
	journal     []Entry
	now         Clock
}

// New places a robot at the origin of f, which must already carry a mission
// layout. A nil clock falls back to time.Now.
func New(f *field.Field, now Clock) *Robot {
	if now == nil {
		now = time.Now
	}

	r := &Robot{
		field:       f,
		pos:         field.Origin,
		movingRight: true,
		now:         now,
	}
	r.current().Occupied = true
	r.logf("Mission started at (%d,%d).", r.pos.X, r.pos.Y)
	return r
}

// Position returns the cell the robot stands on.
func (r *Robot) Position() field.Position { return r.pos }

// MovingRight reports the current scan direction.
func (r *Robot) MovingRight() bool { return r.movingRight }

// Exhausted reports whether the scan ran out of cells with the mission incomplete.
func (r *Robot) Exhausted() bool { return r.exhausted }

// Journal returns a copy of the journal in chronological order.
func (r *Robot) Journal() []Entry {
	return append([]Entry(nil), r.journal...)
}

// IsComplete reports whether the robot stands on the last cell of the scan and no
// plant or tube is left anywhere on the field.
func (r *Robot) IsComplete() bool {
	if r.pos.X != field.Width-1 || r.pos.Y != field.Height-1 {
		return false
	}
	return !r.field.Any(field.CellType.Pending)
}

// Step processes the current cell and moves to the next one. It returns false when
// nothing moved: the mission was already complete or the scan is exhausted.
func (r *Robot) Step() bool {
	if r.IsComplete() || r.exhausted {
		return false
	}

	r.ProcessCurrentCell()

	next, movingRight, ok := Snake(r.pos, r.movingRight)
	if !ok {
		if !r.IsComplete() {
			r.exhausted = true
			r.logf("Scan finished.")
		}
		return false
	}

	r.movingRight = movingRight
	r.moveTo(next)

	if t := r.current().Type; t.Restricted() {
		r.logf("Forbidden move onto %s at (%d,%d)!", t.Name(), next.X, next.Y)
	}
	return true
}

// ProcessCurrentCell applies the sampling rules to the cell under the robot.
// A plant becomes a tube and then, within the same call, a processed sample.
func (r *Robot) ProcessCurrentCell() {
	cell := r.current()
	if cell.Type.Restricted() {
		return
	}

	if cell.Type == field.Plant {
		r.logf("Cell (%d,%d): plant found, converting to tube.", cell.X, cell.Y)
		cell.Type = field.Tube
	}

	if cell.Type == field.Tube {
		r.logf("Cell (%d,%d): tube found, converting to processed.", cell.X, cell.Y)
		cell.Type = field.Processed
	}

	if cell.Type == field.Finish {
		r.logf("Cell (%d,%d): finish reached!", cell.X, cell.Y)
	}
}

// Snake computes the next cell of a boustrophedon scan. It continues along the
// row in the current direction; at the row edge it climbs one row and reverses.
// ok is false once the top row is exhausted.
func Snake(pos field.Position, movingRight bool) (next field.Position, nextMovingRight bool, ok bool) {
	dx := 1
	if !movingRight {
		dx = -1
	}

	if x := pos.X + dx; x >= 0 && x < field.Width {
		return field.Position{X: x, Y: pos.Y}, movingRight, true
	}

	if pos.Y < field.Height-1 {
		return field.Position{X: pos.X, Y: pos.Y + 1}, !movingRight, true
	}

	return pos, movingRight, false
}

func (r *Robot) moveTo(next field.Position) {
	target := r.field.Cell(next.X, next.Y)
	if target == nil {
		panic(fmt.Errorf("%w: (%d,%d)", ErrNoCurrentCell, next.X, next.Y))
	}

	r.current().Occupied = false
	target.Occupied = true
	r.pos = next

	r.logf("Moved to (%d,%d). Type: %s", next.X, next.Y, target.Type.Name())
}

func (r *Robot) current() *field.Cell {
	c := r.field.Cell(r.pos.X, r.pos.Y)
	if c == nil {
		panic(fmt.Errorf("%w: (%d,%d)", ErrNoCurrentCell, r.pos.X, r.pos.Y))
	}
	return c
}

func (r *Robot) logf(format string, args ...interface{}) {
	r.journal = append(r.journal, Entry{Time: r.now(), Message: fmt.Sprintf(format, args...)})
}
