package domain

// Palette is the five-step intensity scale, index 0 = empty day.
type Palette [5]string

var (
	DarkPalette  = Palette{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"}
	LightPalette = Palette{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}
)

func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}

// Color resolves a bucket to its palette entry. Out-of-range buckets clamp
// to the first entry rather than fail.
func (p Palette) Color(bucket int) string {
	if bucket < 0 || bucket >= len(p) {
		return p[0]
	}
	return p[bucket]
}
