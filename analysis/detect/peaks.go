package detect

import "sort"

// localMaxima returns the sample indices of all local maxima in x. A flat
// plateau counts once, at its midpoint (rounded down). The first and last
// samples are never maxima.
func localMaxima(x []float64) []int {
	var peaks []int
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < n-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				peaks = append(peaks, (i+ahead-1)/2)
				i = ahead
			}
		}
		i++
	}
	return peaks
}

// prominence returns the prominence of the peak at p and the indices of its
// left and right bases. Each base is the lowest sample reached when walking
// outward from p until a strictly higher sample or the signal edge.
func prominence(x []float64, p int) (prom float64, left, right int) {
	top := x[p]

	leftMin := top
	left = p
	for i := p; i >= 0 && x[i] <= top; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
			left = i
		}
	}

	rightMin := top
	right = p
	for i := p; i < len(x) && x[i] <= top; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
			right = i
		}
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return top - base, left, right
}

// halfProminenceWidth measures the width in samples of the peak at p at half
// its prominence, interpolating linearly between samples and clamping the
// search to the peak bases.
func halfProminenceWidth(x []float64, p int, prom float64, left, right int) float64 {
	level := x[p] - prom/2

	i := p
	for left < i && level < x[i] {
		i--
	}
	leftIP := float64(i)
	if x[i] < level {
		leftIP += (level - x[i]) / (x[i+1] - x[i])
	}

	i = p
	for i < right && level < x[i] {
		i++
	}
	rightIP := float64(i)
	if x[i] < level {
		rightIP -= (level - x[i]) / (x[i-1] - x[i])
	}

	return rightIP - leftIP
}

// selectByDistance suppresses peaks closer than distance samples to a higher
// peak. Equal heights keep the lower sample index. peaks must be ascending;
// the survivors are returned in ascending order.
func selectByDistance(x []float64, peaks []int, distance int) []int {
	if distance <= 1 || len(peaks) < 2 {
		return peaks
	}

	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[peaks[order[a]]] > x[peaks[order[b]]]
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}
	for _, j := range order {
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(peaks) && peaks[k]-peaks[j] < distance; k++ {
			keep[k] = false
		}
	}

	out := peaks[:0:0]
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
