package web

import "github.com/custodia-labs/meshdrop/internal/core/domain"

// Event types sent to viewport clients.
const (
	EventSnapshot     = "snapshot"
	EventModelAdded   = "model_added"
	EventModelRemoved = "model_removed"
	EventModelScaled  = "model_scaled"
	EventLoadFailed   = "load_failed"
	EventError        = "error"
)

// ModelView is a loaded model plus the URI rewrite table the page's loader
// applies while parsing the manifest.
type ModelView struct {
	domain.LoadedModel
	AssetMap map[string]string `json:"asset_map"`
}

func newModelView(m domain.LoadedModel) ModelView {
	return ModelView{LoadedModel: m, AssetMap: m.AssetMap()}
}

// Event is one server to client websocket message.
type Event struct {
	Type       string               `json:"type"`
	Model      *ModelView           `json:"model,omitempty"`
	Models     []ModelView          `json:"models,omitempty"`
	Status     *domain.ViewerStatus `json:"status,omitempty"`
	ID         string               `json:"id,omitempty"`
	Scale      *domain.Vec3         `json:"scale,omitempty"`
	Generation uint64               `json:"generation,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Command is one client to server websocket message.
type Command struct {
	Type   string  `json:"type"`
	Factor float64 `json:"factor"`
}

// CommandRescale asks the viewer to rescale the latest model.
const CommandRescale = "rescale"
