package field

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrPlacementOutOfBounds = errors.New("placement is out of the field")
	ErrDuplicatePlacement   = errors.New("cell placed more than once")
)

// Placement overrides the type of one cell.
type Placement struct {
	X    int      `yaml:"x"`
	Y    int      `yaml:"y"`
	Type CellType `yaml:"type"`
}

// Mission is a fixed assignment of cell types applied over a Water field.
type Mission struct {
	Name       string      `yaml:"name"`
	Placements []Placement `yaml:"placements"`
}

//go:embed mission.yaml
var bioLabYAML []byte

var bioLab = mustParseMission(bioLabYAML)

// BioLab returns the sampling mission layout.
func BioLab() Mission {
	m := bioLab
	m.Placements = append([]Placement(nil), bioLab.Placements...)
	return m
}

// ParseMission decodes and validates a mission document.
func ParseMission(raw []byte) (Mission, error) {
	var m Mission
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("mission.yaml: %w", err)
	}

	seen := make(map[Position]struct{}, len(m.Placements))
	for _, p := range m.Placements {
		pos := Position{X: p.X, Y: p.Y}
		if !InBound(p.X, p.Y) {
			return m, fmt.Errorf("mission %q: %w: (%d,%d)", m.Name, ErrPlacementOutOfBounds, p.X, p.Y)
		}
		if _, dup := seen[pos]; dup {
			return m, fmt.Errorf("mission %q: %w: (%d,%d)", m.Name, ErrDuplicatePlacement, p.X, p.Y)
		}
		seen[pos] = struct{}{}
	}

	return m, nil
}

func mustParseMission(raw []byte) Mission {
	m, err := ParseMission(raw)
	if err != nil {
		panic(err)
	}
	return m
}
