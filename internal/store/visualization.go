package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/GregMSThompson/viz-backend/internal/errs"
	"github.com/GregMSThompson/viz-backend/internal/models"
	"github.com/GregMSThompson/viz-backend/pkg/logger"
)

// visualizationStore is the process-wide ordered collection of visualizations.
// Members are kept in insertion order; ids are never reused.
type visualizationStore struct {
	mu    sync.RWMutex
	items []models.Visualization
	newID func() string
}

func NewVisualizationStore() *visualizationStore {
	return &visualizationStore{newID: newTimeOrderedID}
}

// newTimeOrderedID returns a UUIDv7, which sorts by creation time.
func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *visualizationStore) Add(ctx context.Context, spec models.VisualizationSpec) string {
	v := models.Visualization{VisualizationSpec: spec.Clone()}

	s.mu.Lock()
	v.ID = s.newID()
	s.items = append(s.items, v)
	size := len(s.items)
	s.mu.Unlock()

	logger.FromContext(ctx).Debug("visualization added", "visualization_id", v.ID, "type", v.Type, "size", size)
	return v.ID
}

func (s *visualizationStore) Get(_ context.Context, id string) (*models.Visualization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.items {
		if v.ID == id {
			out := models.Visualization{VisualizationSpec: v.VisualizationSpec.Clone(), ID: v.ID}
			return &out, nil
		}
	}
	return nil, errs.NewNotFoundError("visualization not found")
}

// Remove deletes the member with id. An unknown id is a no-op.
func (s *visualizationStore) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	removed := false
	for i, v := range s.items {
		if v.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	logger.FromContext(ctx).Debug("visualization remove", "visualization_id", id, "removed", removed)
}

func (s *visualizationStore) Clear(ctx context.Context) {
	s.mu.Lock()
	n := len(s.items)
	s.items = nil
	s.mu.Unlock()

	logger.FromContext(ctx).Debug("visualizations cleared", "count", n)
}

// List returns a snapshot in insertion order. Mutating it does not affect the store.
func (s *visualizationStore) List(_ context.Context) []models.Visualization {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Visualization, len(s.items))
	for i, v := range s.items {
		out[i] = models.Visualization{VisualizationSpec: v.VisualizationSpec.Clone(), ID: v.ID}
	}
	return out
}

func (s *visualizationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
