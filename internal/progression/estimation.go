package progression

import "math"

// EstimatedOneRepMax uses the Epley formula: weight * (1 + reps/30).
// A single rep is the max itself.
func EstimatedOneRepMax(weight, reps float64) float64 {
	if weight == 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return weight * (1 + reps/30)
}

// Average returns the arithmetic mean, 0 for no values.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func changePct(recent, old float64) float64 {
	if old == 0 {
		return 0
	}
	return (recent - old) / old * 100
}

// roundOne rounds half away from zero to one decimal place.
func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
