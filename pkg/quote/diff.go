package quote

import "math"

// Tolerances below which numeric jitter is not worth a redraw.
const (
	PriceEpsilon   = 0.0005
	PercentEpsilon = 0.01
)

// DiffersForDisplay reports whether next should replace prev on screen.
// Identity and timestamp fields compare exactly, volume compares exactly,
// and price-scale fields compare by presence and then by tolerance.
func DiffersForDisplay(prev, next Quote) bool {
	if prev.Symbol != next.Symbol ||
		prev.Code != next.Code ||
		prev.Name != next.Name ||
		prev.TimestampDisplay != next.TimestampDisplay {
		return true
	}
	if numberDiffers(prev.Last, next.Last, PriceEpsilon) ||
		numberDiffers(prev.Change, next.Change, PriceEpsilon) ||
		numberDiffers(prev.ChangePct, next.ChangePct, PercentEpsilon) ||
		numberDiffers(prev.High, next.High, PriceEpsilon) ||
		numberDiffers(prev.Low, next.Low, PriceEpsilon) {
		return true
	}
	return prev.Volume != next.Volume
}

func numberDiffers(a, b, eps float64) bool {
	am, bm := IsMissing(a), IsMissing(b)
	if am || bm {
		return am != bm
	}
	return math.Abs(a-b) > eps
}
