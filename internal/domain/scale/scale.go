// Package scale maps a continuous year domain onto pixel space.
package scale

// Scale is a monotonic mapping from years to pixels and back.
// Implementations are immutable; Rescale returns a new value.
type Scale interface {
	// Map converts a year to a pixel coordinate.
	Map(year float64) float64
	// Invert converts a pixel coordinate back to a year.
	Invert(px float64) float64
	// Domain returns the year interval.
	Domain() (d0, d1 float64)
	// Range returns the pixel interval.
	Range() (r0, r1 float64)
	// Rescale returns the scale seen through t, i.e. Map'(y) = Map(y)*t.K + t.X.
	Rescale(t Transform) Scale
	// Ticks returns roughly count round values inside the domain.
	Ticks(count int) []float64
}

// Transform is a zoom factor K with a horizontal translation X.
// Y is carried for the interaction binding but never alters the year mapping.
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the transform with no zoom and no pan.
var Identity = Transform{K: 1}

// Apply maps a base pixel through the transform.
func (t Transform) Apply(px float64) float64 { return px*t.K + t.X }

// Invert maps a transformed pixel back to base pixel space.
func (t Transform) Invert(px float64) float64 { return (px - t.X) / t.K }

// WithX returns a copy of t translated to x.
func (t Transform) WithX(x float64) Transform {
	t.X = x
	return t
}

// PixelsPerYear reports the slope of s.
func PixelsPerYear(s Scale) float64 {
	d0, d1 := s.Domain()
	r0, r1 := s.Range()
	return (r1 - r0) / (d1 - d0)
}
