package memory

import (
	"sync"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
)

// Ensure Scene implements the interface.
var _ driven.Scene = (*Scene)(nil)

// Scene is an in-memory scene graph. It keeps resident models in insertion
// order and fans changes out to observers such as connected viewports.
type Scene struct {
	mu        sync.RWMutex
	order     []string
	models    map[string]domain.LoadedModel
	observers []driven.SceneObserver
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		models: make(map[string]domain.LoadedModel),
	}
}

// Subscribe registers an observer for subsequent changes.
func (s *Scene) Subscribe(o driven.SceneObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Add makes a copy of model resident. Re-adding an id replaces it in place.
func (s *Scene) Add(model *domain.LoadedModel) {
	if model == nil {
		return
	}
	m := *model
	m.Assets = append([]domain.AssetRef(nil), model.Assets...)

	s.mu.Lock()
	if _, exists := s.models[m.ID]; !exists {
		s.order = append(s.order, m.ID)
	}
	s.models[m.ID] = m
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o.ModelAdded(m)
	}
}

// Remove drops a model.
func (s *Scene) Remove(id string) bool {
	s.mu.Lock()
	if _, ok := s.models[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.models, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o.ModelRemoved(id)
	}
	return true
}

// SetScale sets a model's scale.
func (s *Scene) SetScale(id string, scale domain.Vec3) error {
	s.mu.Lock()
	m, ok := s.models[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	m.Scale = scale
	s.models[id] = m
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o.ModelScaled(id, scale)
	}
	return nil
}

// Models returns copies of all resident models in insertion order.
func (s *Scene) Models() []domain.LoadedModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.LoadedModel, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.models[id])
	}
	return result
}
