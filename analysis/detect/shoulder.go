package detect

import (
	"math"
	"sort"
)

type shoulder struct {
	sample int
	parent int
}

// findShoulders scans both flanks of every primary peak for weak local maxima
// and slope dips that reach at least ShoulderRatio of the parent height.
func findShoulders(x []float64, peaks []primary, cfg Config) []shoulder {
	if len(peaks) == 0 {
		return nil
	}

	spacing := cfg.Distance
	if spacing < 1 {
		spacing = 1
	}

	isPrimary := make(map[int]bool, len(peaks))
	for _, p := range peaks {
		isPrimary[p.sample] = true
	}
	maxima := make(map[int]bool)
	for _, m := range localMaxima(x) {
		maxima[m] = true
	}
	slope := centralSlope(x)

	best := make(map[int]shoulder)
	for _, p := range peaks {
		floor := cfg.ShoulderRatio * x[p.sample]
		for _, dir := range []int{-1, 1} {
			limit := p.left
			if dir > 0 {
				limit = p.right
			}
			for i := p.sample + dir; i != limit && i > 0 && i < len(x)-1; i += dir {
				if isPrimary[i] || x[i] < floor {
					break
				}
				if x[i] >= x[p.sample] {
					continue
				}
				if !maxima[i] && !slopeDip(slope, i, dir) {
					continue
				}
				if nearPrimary(i, peaks, spacing) {
					continue
				}
				prev, ok := best[i]
				if !ok || abs(i-p.sample) < abs(i-prev.parent) {
					best[i] = shoulder{sample: i, parent: p.sample}
				}
			}
		}
	}

	candidates := make([]shoulder, 0, len(best))
	for _, sh := range best {
		candidates = append(candidates, sh)
	}
	sort.Slice(candidates, func(a, b int) bool {
		ha, hb := x[candidates[a].sample], x[candidates[b].sample]
		if ha != hb {
			return ha > hb
		}
		return candidates[a].sample < candidates[b].sample
	})

	var accepted []shoulder
	for _, c := range candidates {
		clash := false
		for _, a := range accepted {
			if abs(c.sample-a.sample) < spacing {
				clash = true
				break
			}
		}
		if !clash {
			accepted = append(accepted, c)
		}
	}
	return accepted
}

// centralSlope returns the central difference of x; the end samples are 0.
func centralSlope(x []float64) []float64 {
	d := make([]float64, len(x))
	for i := 1; i < len(x)-1; i++ {
		d[i] = (x[i+1] - x[i-1]) / 2
	}
	return d
}

// slopeDip reports whether the slope magnitude has a strict interior local
// minimum at i while keeping the sign of a flank that falls away from the
// parent in direction dir.
func slopeDip(slope []float64, i, dir int) bool {
	if i < 2 || i > len(slope)-3 {
		return false
	}
	// Walking outward along dir the signal falls, so the slope sign is -dir.
	if slope[i]*float64(dir) >= 0 {
		return false
	}
	m := math.Abs(slope[i])
	return m < math.Abs(slope[i-1]) && m < math.Abs(slope[i+1])
}

func nearPrimary(i int, peaks []primary, spacing int) bool {
	for _, p := range peaks {
		if abs(i-p.sample) < spacing {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
