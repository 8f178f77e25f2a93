// Package folio is a retained-mode scene graph for portfolio showcase pages
// on [Ebitengine].
//
// Folio provides the node tree, transform hierarchy, pointer hover input,
// a scrolling page camera and viewport observation, plus two interaction
// components that give a showcase its feel: [Tilt], which rotates a card
// toward the pointer with a glare highlight, and [Reveal], which plays an
// entrance animation when a node scrolls into view.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := folio.NewScene()
//	cam := scene.NewCamera(folio.Rect{Width: 960, Height: 640})
//	cam.SetBounds(folio.Rect{Width: 960, Height: 2400})
//
//	card := folio.NewCard("project", img, 280, 180)
//	card.SetPosition(40, 900)
//	scene.Root().AddChild(card)
//
//	folio.NewTilt(scene, card, folio.TiltConfig{Amount: 10, GlareOpacity: 0.4})
//	folio.NewReveal(scene, card, folio.RevealConfig{Variant: folio.VariantSlideUp})
//
//	folio.Run(scene, folio.RunConfig{Title: "Portfolio", Width: 960, Height: 640})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. Children inherit their parent's transform and alpha.
// Layout fields (X, Y, Width, Height, scale, pivot) position a node; the
// display overlay (DisplayX, DisplayY, DisplayScale, DisplayAlpha) is layered
// on top by animations and does not affect viewport observation.
//
// Disposing a node runs its dispose hooks, which close any Tilt or Reveal
// attached to it. No callback fires for a disposed node.
//
// # Tilt
//
// [NewTilt] attaches pointer listeners to one card. While the pointer is
// over the card, the rotation follows the pointer's normalized offset from
// the card center, at most [TiltConfig.Amount] degrees on each axis. On
// leave, rotation and glare ease back to exactly zero.
//
// # Reveal
//
// [NewReveal] applies the variant's start style at once and registers a
// visibility observer on the scene. When the node's visible fraction crosses
// the threshold the end style is tweened in after the configured delay.
// One-shot reveals never revert; repeatable reveals revert on exit and
// replay on the next entry.
//
// # Scripted input
//
// [Scene.InjectMove], [Scene.InjectLeave], [Scene.InjectScroll] and
// [Scene.InjectPath] queue synthetic pointer samples consumed one per frame.
// [LoadTestScript] reads a YAML script of such steps plus screenshots for
// automated visual checks.
//
// # ECS integration
//
// Interaction events can be forwarded to an entity system through the
// [EntityStore] interface. The ecs subpackage ships a Donburi adapter.
//
// [Ebitengine]: https://ebitengine.org
package folio
