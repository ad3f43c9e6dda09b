package block

import (
	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/geom"
)

// Host receives the notifications a session emits towards its front end.
type Host interface {
	// Redraw asks for a repaint after a public operation changed state.
	Redraw()
	// ShowInsertLine shows the drop guide at l, in scene coordinates.
	ShowInsertLine(l geom.Line)
	// HideInsertLine hides the drop guide.
	HideInsertLine()
	// TransitionFinished reports that the geometry transition of h ended.
	TransitionFinished(h arena.Handle)
}

// NopHost ignores every notification.
type NopHost struct{}

func (NopHost) Redraw()                         {}
func (NopHost) ShowInsertLine(geom.Line)        {}
func (NopHost) HideInsertLine()                 {}
func (NopHost) TransitionFinished(arena.Handle) {}
