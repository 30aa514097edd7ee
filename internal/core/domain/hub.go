package domain

// RawState is one hub state object as returned by the states API.
type RawState struct {
	EntityID    string     `json:"entity_id"`
	State       string     `json:"state"`
	Attributes  Attributes `json:"attributes"`
	LastChanged string     `json:"last_changed,omitempty"`
	LastUpdated string     `json:"last_updated,omitempty"`
}

// WritePayload is what a write sends to the hub. The concrete type picks
// the endpoint: a StatePayload sets the state object, a ServicePayload
// invokes a service against the entity.
type WritePayload interface {
	writePayload()
}

type StatePayload struct {
	State      string     `json:"state"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type ServicePayload struct {
	Domain  string
	Service string
	Data    map[string]any
}

func (StatePayload) writePayload()   {}
func (ServicePayload) writePayload() {}

var _ WritePayload = StatePayload{}
var _ WritePayload = ServicePayload{}
