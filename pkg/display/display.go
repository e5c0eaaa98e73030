package display

// Surface is a character-cell drawing target. Coordinates are zero based
// columns and rows; drawing outside the surface is clipped.
type Surface interface {
	Width() int
	Height() int
	Clear()
	Text(col, row int, s string)
	HLine(row int)
}

// Display owns the physical refresh cycle.
type Display interface {
	// DrawFrame runs render once against the surface inside a full or
	// partial refresh window. The window is always finalized, even when
	// render panics; the panic is returned as an error.
	DrawFrame(render func(Surface), full bool) error
}
