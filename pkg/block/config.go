package block

import (
	"time"

	"github.com/matzehuels/blocktree/pkg/anim"
	"github.com/matzehuels/blocktree/pkg/geom"
)

// Config holds the layout metrics of a session.
type Config struct {
	// Offset is the margin of a block whose frame is shown.
	Offset geom.Point
	// NoOffset is the margin of a block whose frame is hidden.
	NoOffset geom.Point
	// SpaceWidth is the horizontal size of one unit of leading spacing.
	SpaceWidth float64
	// CharWidth is the width of one terminal cell of text.
	CharWidth float64
	// LineHeight is the height of a text item, margins included.
	LineHeight float64
	// TextMargin is the inner horizontal margin of a text item.
	TextMargin float64
	// DragThreshold is the pointer travel that turns a press into a drag.
	DragThreshold float64
	// ControlSize is the edge length of a fold control.
	ControlSize float64
	// Transition is the geometry transition duration.
	Transition time.Duration
}

// DefaultConfig returns the standard metrics.
func DefaultConfig() Config {
	return Config{
		Offset:        geom.Pt(8, 8),
		NoOffset:      geom.Pt(0, 1),
		SpaceWidth:    10,
		CharWidth:     8,
		LineHeight:    16,
		TextMargin:    4,
		DragThreshold: 3,
		ControlSize:   8,
		Transition:    anim.DefaultDuration,
	}
}
