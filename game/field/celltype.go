package field

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrUnknownCellType = errors.New("unknown cell type")

// CellType tags a cell. It drives the robot's processing rules; the
// appearance attributes are only consumed by renderers.
type CellType uint8

const (
	Tube      CellType = iota // Empty sample container.
	Processed                 // Sample already processed.
	Plant                     // Plant that must be sampled into a tube.
	Lab                       // Marker the robot passes over without processing.
	Finish                    // Final cell of the mission.
	Water                     // Neutral default.
	Container                 // Marker the robot passes over without processing.

	cellTypeCount
)

// Appearance holds the display attributes of a cell type.
type Appearance struct {
	ID    string // Stable identifier used on the wire.
	Name  string // Human readable name used in the journal.
	Label string // Short label drawn inside a cell.
	Color string // Hex fill color.
}

var appearances = [cellTypeCount]Appearance{
	Tube:      {ID: "TUBE", Name: "Tube", Label: "TUBE", Color: "#ADD8E6"},
	Processed: {ID: "PROCESSED", Name: "Processed", Label: "PROC.", Color: "#90EE90"},
	Plant:     {ID: "PLANT", Name: "Plant", Label: "PLANT", Color: "#3CB371"},
	Lab:       {ID: "LAB", Name: "Lab", Label: "LAB", Color: "#FF6347"},
	Finish:    {ID: "FINISH", Name: "Finish", Label: "FINISH", Color: "#FFA500"},
	Water:     {ID: "WATER", Name: "Water", Label: "WATER", Color: "#FFFFFF"},
	Container: {ID: "CONTAINER", Name: "Container", Label: "CONT.", Color: "#808080"},
}

// CellTypes lists every variant in declaration order.
func CellTypes() []CellType {
	types := make([]CellType, 0, cellTypeCount)
	for t := CellType(0); t < cellTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Valid reports whether t is one of the declared variants.
func (t CellType) Valid() bool {
	return t < cellTypeCount
}

// Appearance returns the display attributes of t.
func (t CellType) Appearance() Appearance {
	if !t.Valid() {
		return Appearance{ID: fmt.Sprintf("CellType(%d)", uint8(t))}
	}
	return appearances[t]
}

func (t CellType) String() string { return t.Appearance().ID }
func (t CellType) Name() string   { return t.Appearance().Name }
func (t CellType) Label() string  { return t.Appearance().Label }
func (t CellType) Color() string  { return t.Appearance().Color }

// Restricted reports whether the robot must skip processing on a cell of this type.
func (t CellType) Restricted() bool {
	return t == Lab || t == Container
}

// Pending reports whether a cell of this type still needs processing.
func (t CellType) Pending() bool {
	return t == Plant || t == Tube
}

// ParseCellType resolves a wire identifier such as "PLANT".
func ParseCellType(id string) (CellType, error) {
	for t, a := range appearances {
		if a.ID == id {
			return CellType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCellType, id)
}

// UnmarshalYAML decodes a cell type from its identifier.
func (t *CellType) UnmarshalYAML(value *yaml.Node) error {
	var id string
	if err := value.Decode(&id); err != nil {
		return err
	}
	parsed, err := ParseCellType(id)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes a cell type as its identifier.
func (t CellType) MarshalYAML() (interface{}, error) {
	if !t.Valid() {
		return nil, ErrUnknownCellType
	}
	return t.String(), nil
}
