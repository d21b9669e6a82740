package driven

import "github.com/custodia-labs/meshdrop/internal/core/domain"

// Scene is the render scene's add/remove capability plus per-model scale.
type Scene interface {
	// Add makes model resident. Existing models are kept.
	Add(model *domain.LoadedModel)

	// Remove drops a model by id. Returns false when absent.
	Remove(id string) bool

	// SetScale sets a model's uniform scale.
	// Returns domain.ErrNotFound when the model is absent.
	SetScale(id string, scale domain.Vec3) error

	// Models returns copies of all resident models in insertion order.
	Models() []domain.LoadedModel
}

// SceneObserver is notified of scene changes, after they are applied.
// Callbacks run on the mutating goroutine and must not block.
type SceneObserver interface {
	ModelAdded(model domain.LoadedModel)
	ModelRemoved(id string)
	ModelScaled(id string, scale domain.Vec3)
}
