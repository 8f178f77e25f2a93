package folio

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and component counts.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	nodes      int
	observers  int
	updaters   int
	drawCalls  int
}

// debugLog writes frame stats to the scene logger at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	evt := s.log.Debug().Uint64("frame", s.frame)
	if stats.drawTime > 0 || stats.drawCalls > 0 {
		evt.Dur("draw", stats.drawTime).Int("draw_calls", stats.drawCalls).Msg("draw")
		return
	}
	evt.Dur("update", stats.updateTime).
		Int("nodes", stats.nodes).
		Int("observers", stats.observers).
		Int("updaters", stats.updaters).
		Msg("update")
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("folio debug: %s on disposed node %q", op, n.Name))
	}
}

// countNodes returns the size of the subtree rooted at n.
func countNodes(n *Node) int {
	count := 1
	for _, child := range n.children {
		count += countNodes(child)
	}
	return count
}
