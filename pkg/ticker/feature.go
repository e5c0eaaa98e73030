package ticker

import "inkticker/pkg/display"

// Feature is a screen: it keeps its own dirty flag and lays out State on a
// display.Surface. The kernel decides when and how (full or partial) to draw.
type Feature interface {
	ID() string
	OnEnter(st State)
	OnTick(st State, nowMs uint32)
	NeedsRender() bool
	Render(s display.Surface, st State, nowMs uint32)
	MarkDirty()
	ClearDirty()
}
