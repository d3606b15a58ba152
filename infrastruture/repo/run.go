package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ i.RunArchive = (*RunRepo)(nil)

// runDocument is the stored shape of a report. The ID is kept as its string
// form so documents stay readable from the mongo shell.
type runDocument struct {
	ID         string    `bson:"_id"`
	Mission    string    `bson:"mission"`
	StartedAt  time.Time `bson:"startedAt"`
	FinishedAt time.Time `bson:"finishedAt"`
	Steps      int       `bson:"steps"`
	Complete   bool      `bson:"complete"`
	Processed  int       `bson:"processed"`
	Journal    []string  `bson:"journal"`
}

// RunRepo handles the persistence of run reports.
type RunRepo struct {
	collection *mongo.Collection
}

// NewRunRepo creates a new RunRepo with the given MongoDB client, database name, and collection name.
func NewRunRepo(client *mongo.Client, dbName, collectionName string) *RunRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &RunRepo{
		collection: collection,
	}
}

// Save inserts or replaces a report.
func (r *RunRepo) Save(ctx context.Context, report *game.Report) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	doc := toDocument(report)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

// ByID retrieves a report by its session ID.
// Returns i.ErrRunNotFound if there is none.
func (r *RunRepo) ByID(ctx context.Context, id uuid.UUID) (*game.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var doc runDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, i.ErrRunNotFound
		}
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	return doc.toReport()
}

func toDocument(report *game.Report) runDocument {
	return runDocument{
		ID:         report.ID.String(),
		Mission:    report.Mission,
		StartedAt:  report.StartedAt.UTC(),
		FinishedAt: report.FinishedAt.UTC(),
		Steps:      report.Steps,
		Complete:   report.Complete,
		Processed:  report.Processed,
		Journal:    report.Journal,
	}
}

func (d runDocument) toReport() (*game.Report, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed run id %q: %w", d.ID, err)
	}
	return &game.Report{
		ID:         id,
		Mission:    d.Mission,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		Steps:      d.Steps,
		Complete:   d.Complete,
		Processed:  d.Processed,
		Journal:    d.Journal,
	}, nil
}
