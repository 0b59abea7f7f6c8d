package crop

// Progress places now between planting and expected harvest as a percentage
// in [0,100], counted in whole calendar days.
func Progress(planted, harvest, now Date) float64 {
	p, h, n := planted.days(), harvest.days(), now.days()
	if n < p {
		return 0
	}
	// zero-length season: done as soon as it starts
	if h <= p || n >= h {
		return 100
	}
	return float64(n-p) / float64(h-p) * 100
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
