package scale

// Linear interpolates between a closed year interval and a closed pixel
// interval. Callers guarantee d0 != d1 and r0 != r1.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear creates a linear scale mapping [d0, d1] onto [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Map converts a year to a pixel coordinate.
func (l Linear) Map(year float64) float64 {
	return l.r0 + (year-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}

// Invert converts a pixel coordinate back to a year.
func (l Linear) Invert(px float64) float64 {
	return l.d0 + (px-l.r0)/(l.r1-l.r0)*(l.d1-l.d0)
}

// Domain returns the year interval.
func (l Linear) Domain() (float64, float64) { return l.d0, l.d1 }

// Range returns the pixel interval.
func (l Linear) Range() (float64, float64) { return l.r0, l.r1 }

// Rescale keeps the pixel range and moves the domain so that every year lands
// where the transform would have moved it.
func (l Linear) Rescale(t Transform) Scale {
	return Linear{
		d0: l.Invert(t.Invert(l.r0)),
		d1: l.Invert(t.Invert(l.r1)),
		r0: l.r0,
		r1: l.r1,
	}
}

// Ticks returns round values inside the domain.
func (l Linear) Ticks(count int) []float64 {
	return Ticks(l.d0, l.d1, count)
}
