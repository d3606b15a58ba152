package repo

import (
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRunDocument(t *testing.T) {
	started := time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)
	report := &game.Report{
		ID:         uuid.New(),
		Mission:    "biolab",
		StartedAt:  started,
		FinishedAt: started.Add(12 * time.Second),
		Steps:      24,
		Complete:   true,
		Processed:  5,
		Journal:    []string{"[09:00:00] Mission started at (0,0)."},
	}

	t.Run("document round trips through bson", func(t *testing.T) {
		raw, err := bson.Marshal(toDocument(report))
		require.NoError(t, err)

		var doc runDocument
		require.NoError(t, bson.Unmarshal(raw, &doc))
		got, err := doc.toReport()
		require.NoError(t, err)
		assert.Equal(t, report, got)
	})

	t.Run("id is stored as a string", func(t *testing.T) {
		raw, err := bson.Marshal(toDocument(report))
		require.NoError(t, err)

		var m bson.M
		require.NoError(t, bson.Unmarshal(raw, &m))
		assert.Equal(t, report.ID.String(), m["_id"])
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := runDocument{ID: "nope"}.toReport()
		assert.Error(t, err)
	})
}
