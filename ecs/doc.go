// Package ecs provides ECS adapters for folio's interaction event system.
//
// The primary adapter is [NewDonburiStore], which bridges folio interaction
// events (pointer, tilt settle, reveal trigger and reset) into a [Donburi]
// world as typed events. Subscribe to [InteractionEventType] in your ECS
// systems to receive them, or use [SubscribeType] to receive one kind only.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
