package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCellType(t *testing.T) {
	t.Run("every variant has appearance attributes", func(t *testing.T) {
		require.Len(t, CellTypes(), 7)
		ids := map[string]struct{}{}
		for _, ct := range CellTypes() {
			a := ct.Appearance()
			assert.NotEmpty(t, a.ID)
			assert.NotEmpty(t, a.Name)
			assert.NotEmpty(t, a.Label)
			assert.Regexp(t, `^#[0-9A-F]{6}$`, a.Color)
			ids[a.ID] = struct{}{}
		}
		assert.Len(t, ids, 7)
	})

	t.Run("restricted and pending groups", func(t *testing.T) {
		for _, ct := range CellTypes() {
			assert.Equal(t, ct == Lab || ct == Container, ct.Restricted(), ct.String())
			assert.Equal(t, ct == Plant || ct == Tube, ct.Pending(), ct.String())
		}
	})

	t.Run("ParseCellType resolves identifiers", func(t *testing.T) {
		for _, ct := range CellTypes() {
			parsed, err := ParseCellType(ct.String())
			require.NoError(t, err)
			assert.Equal(t, ct, parsed)
		}

		_, err := ParseCellType("plant")
		assert.ErrorIs(t, err, ErrUnknownCellType)
	})

	t.Run("invalid values are reported", func(t *testing.T) {
		bogus := CellType(42)
		assert.False(t, bogus.Valid())
		assert.Equal(t, "CellType(42)", bogus.String())

		_, err := yaml.Marshal(struct {
			T CellType `yaml:"t"`
		}{bogus})
		assert.Error(t, err)
	})

	t.Run("yaml encodes identifiers", func(t *testing.T) {
		out, err := yaml.Marshal(Placement{X: 1, Y: 2, Type: Container})
		require.NoError(t, err)
		assert.Contains(t, string(out), "type: CONTAINER")
	})
}
