// Package memstore keeps run reports and the recent runs index in process memory.
package memstore

import (
	"context"
	"sync"

	"github.com/beka-birhanu/vinom-biolab/game"
	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/google/uuid"
)

// RunArchive is an in-memory i.RunArchive.
type RunArchive struct {
	reports map[uuid.UUID]game.Report
	sync.RWMutex
}

// NewRunArchive creates an empty archive.
func NewRunArchive() *RunArchive {
	return &RunArchive{reports: make(map[uuid.UUID]game.Report)}
}

// Save inserts or replaces a report.
func (a *RunArchive) Save(_ context.Context, report *game.Report) error {
	r := *report
	r.Journal = append([]string(nil), report.Journal...)

	a.Lock()
	defer a.Unlock()
	a.reports[r.ID] = r
	return nil
}

// ByID retrieves a report by ID.
func (a *RunArchive) ByID(_ context.Context, id uuid.UUID) (*game.Report, error) {
	a.RLock()
	defer a.RUnlock()
	r, ok := a.reports[id]
	if !ok {
		return nil, i.ErrRunNotFound
	}
	r.Journal = append([]string(nil), r.Journal...)
	return &r, nil
}
