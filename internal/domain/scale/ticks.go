package scale

import (
	"math"
	"slices"
)

// Thresholds for rounding a raw step to 1, 2, 5 or 10 times a power of ten.
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// Ticks returns roughly count evenly spaced round values in [start, stop].
// Values come back in the same direction as the interval.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	inc := increment(start, stop, count)
	if inc == 0 || math.IsInf(inc, 0) || math.IsNaN(inc) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		i0, i1 := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := i0; i <= i1; i++ {
			ticks = append(ticks, unsigned(i*inc))
		}
	} else {
		// Negative increments encode 1/step so sub-unit ticks stay exact.
		inv := -inc
		i0, i1 := math.Ceil(start*inv), math.Floor(stop*inv)
		for i := i0; i <= i1; i++ {
			ticks = append(ticks, unsigned(i/inv))
		}
	}

	if reverse {
		slices.Reverse(ticks)
	}
	return ticks
}

// Step returns the positive distance between consecutive ticks.
func Step(start, stop float64, count int) float64 {
	if stop < start {
		start, stop = stop, start
	}
	inc := increment(start, stop, count)
	if inc < 0 {
		return -1 / inc
	}
	return inc
}

func increment(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// unsigned maps -0 to 0 so a tick at the origin never carries a sign.
func unsigned(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
