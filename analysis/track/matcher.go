package track

import (
	"math"
	"sort"

	"github.com/cwbudde/algo-raman/dsp/core"
)

// Pair links an open track (index into the candidate list) to a feature
// (index into the position-sorted feature list).
type Pair struct {
	Track   int
	Feature int
	Dist    float64
}

// Matcher computes a one-to-one correspondence between the last known
// positions of open tracks and the positions of newly detected features.
// Only pairs with distance <= tol may be returned. Inputs are ordered: track
// candidates by ascending track ID, features by ascending position.
type Matcher interface {
	Match(tracks, features []float64, tol float64) []Pair
}

// within reports whether d is inside tol, inclusive up to rounding.
func within(d, tol float64) bool {
	return core.AtMost(d, tol, core.DefaultEpsilon)
}

func candidates(tracks, features []float64, tol float64) []Pair {
	var pairs []Pair
	for i, tp := range tracks {
		for j, fp := range features {
			d := math.Abs(fp - tp)
			if within(d, tol) {
				pairs = append(pairs, Pair{Track: i, Feature: j, Dist: d})
			}
		}
	}
	return pairs
}

// Greedy assigns nearest pairs first. Ties are broken by lower track ID and
// then by lower feature position.
type Greedy struct{}

// Match implements Matcher.
func (Greedy) Match(tracks, features []float64, tol float64) []Pair {
	pairs := candidates(tracks, features, tol)
	sort.SliceStable(pairs, func(a, b int) bool {
		pa, pb := pairs[a], pairs[b]
		if pa.Dist != pb.Dist {
			return pa.Dist < pb.Dist
		}
		if pa.Track != pb.Track {
			return pa.Track < pb.Track
		}
		return pa.Feature < pb.Feature
	})

	trackUsed := make([]bool, len(tracks))
	featUsed := make([]bool, len(features))
	out := make([]Pair, 0, min(len(tracks), len(features)))
	for _, p := range pairs {
		if trackUsed[p.Track] || featUsed[p.Feature] {
			continue
		}
		trackUsed[p.Track] = true
		featUsed[p.Feature] = true
		out = append(out, p)
	}
	return out
}

// Optimal solves the assignment problem: it maximizes the number of
// in-tolerance matches and, among maximal matchings, minimizes the summed
// distance.
type Optimal struct{}

// Match implements Matcher.
func (Optimal) Match(tracks, features []float64, tol float64) []Pair {
	pairs := candidates(tracks, features, tol)
	if len(pairs) == 0 {
		return nil
	}

	// Every match is worth more than the sum of all candidate distances,
	// so cardinality dominates total distance.
	bonus := 1.0
	for _, p := range pairs {
		bonus += p.Dist
	}

	n := max(len(tracks), len(features))
	cost := make([][]float64, n)
	allowed := make([][]bool, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		allowed[i] = make([]bool, n)
	}
	for _, p := range pairs {
		cost[p.Track][p.Feature] = p.Dist - bonus
		allowed[p.Track][p.Feature] = true
	}

	assign := hungarian(cost)
	var out []Pair
	for i, j := range assign {
		if i < len(tracks) && j < len(features) && allowed[i][j] {
			out = append(out, Pair{Track: i, Feature: j, Dist: math.Abs(features[j] - tracks[i])})
		}
	}
	return out
}

// hungarian returns, for a square cost matrix, the column assigned to each
// row in a minimum-cost perfect assignment (Kuhn-Munkres with potentials).
func hungarian(cost [][]float64) []int {
	n := len(cost)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assign := make([]int, n)
	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			assign[p[j]-1] = j - 1
		}
	}
	return assign
}
