package ecs

import (
	"github.com/phanxgames/folio"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for folio interaction events.
// Subscribe to this in your ECS systems to receive pointer, tilt and reveal
// events.
var InteractionEventType = events.NewEventType[folio.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) folio.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event folio.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// SubscribeType subscribes fn to interaction events of a single type.
func SubscribeType(world donburi.World, typ folio.EventType, fn func(donburi.World, folio.InteractionEvent)) {
	InteractionEventType.Subscribe(world, func(w donburi.World, e folio.InteractionEvent) {
		if e.Type == typ {
			fn(w, e)
		}
	})
}
