package game

import (
	"time"

	"github.com/beka-birhanu/vinom-biolab/game/field"
	"github.com/google/uuid"
)

// State is the serializable snapshot handed to presentation adapters.
type State struct {
	Width           int           `json:"W"`
	Height          int           `json:"H"`
	Map             [][]CellState `json:"map"` // indexed [y][x]
	RobotX          int           `json:"robot_x"`
	RobotY          int           `json:"robot_y"`
	CurrentCellType string        `json:"current_cell_type"`
	History         []string      `json:"history"`
	IsComplete      bool          `json:"is_complete"`
	Steps           int           `json:"steps"`
}

// CellState is the wire form of a cell.
type CellState struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Type     string `json:"type"`
	Text     string `json:"text"`
	Color    string `json:"color"`
	HasRobot bool   `json:"has_robot"`
}

func newCellState(c field.Cell) CellState {
	a := c.Type.Appearance()
	return CellState{
		X:        c.X,
		Y:        c.Y,
		Type:     a.ID,
		Text:     a.Label,
		Color:    a.Color,
		HasRobot: c.Occupied,
	}
}

// Report is the archived summary of a finished run. ID is the session ID, so a
// run finished after a reset replaces the earlier report of the same session.
type Report struct {
	ID         uuid.UUID `json:"id"`
	Mission    string    `json:"mission"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Steps      int       `json:"steps"`
	Complete   bool      `json:"complete"`
	Processed  int       `json:"processed"`
	Journal    []string  `json:"journal"`
}
