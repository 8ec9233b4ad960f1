package detection

import (
	"math"
)

// DefaultMinAllowedDist is the distance at or below which two apexes are
// considered the same marker and never paired.
const DefaultMinAllowedDist = 50

// PairOptions configures PairNeighbors.
type PairOptions struct {
	// MinAllowedDist excludes candidates whose squared distance is at or
	// below MinAllowedDist². Must not be negative. Values above
	// math.MaxInt32 leave no candidate eligible.
	MinAllowedDist int

	// MaxSqDist seeds the best-so-far squared distance. Candidates at or
	// beyond it are never chosen. Zero means unbounded. Detect uses the
	// squared mask diagonal.
	MaxSqDist int

	// SkipUnpaired leaves apexes without an eligible neighbor out of the
	// pairing instead of failing the whole run.
	SkipUnpaired bool
}

// DefaultPairOptions returns a 50 px minimum distance with no upper bound.
func DefaultPairOptions() PairOptions {
	return PairOptions{MinAllowedDist: DefaultMinAllowedDist}
}

// Pairing holds every paired apex with its chosen neighbor and the local
// orientation between them. Points[i], Neighbors[i] and Angles[i] always
// describe the same apex.
type Pairing struct {
	Points    []Point   `json:"points"`
	Neighbors []Point   `json:"neighbors"`
	Angles    []float64 `json:"angles"` // Radians in [0, π)

	// Skipped lists scan-order indexes that had no eligible neighbor.
	// Only populated when PairOptions.SkipUnpaired is set.
	Skipped []int `json:"skipped,omitempty"`
}

// Len returns the number of paired apexes.
func (p *Pairing) Len() int {
	return len(p.Points)
}

// PairNeighbors picks, for every apex, the nearest other apex that is
// farther away than the minimum allowed distance, and derives the
// orientation of the line joining them.
//
// Parameters:
//   - points: Apexes in scan order, as returned by ScanApexes.
//   - opts: Distance bounds and failure policy.
//
// Returns:
//   - *Pairing: Parallel points, neighbors and angles.
//   - error: A *NeighborError (matching ErrInsufficientNeighbors) for the
//     first apex that has no eligible neighbor, unless SkipUnpaired is set.
//     With SkipUnpaired, an error is still returned if no apex was paired.
//
// # Selection
//
// Every apex searches the full point set independently. A chosen neighbor
// stays a candidate for later apexes, so one apex may be the neighbor of
// many others. Ties keep the candidate found first in scan order.
//
// # Orientation
//
// The angle is atan2(p.Y-q.Y, p.X-q.X) reduced modulo π into [0, π), so a
// direction and its opposite share one value.
func PairNeighbors(points []Point, opts PairOptions) (*Pairing, error) {
	pairing := &Pairing{
		Points:    make([]Point, 0, len(points)),
		Neighbors: make([]Point, 0, len(points)),
		Angles:    make([]float64, 0, len(points)),
	}

	// Larger values would overflow the square; no distance between two
	// points exceeds them anyway.
	minSqDist := math.MaxInt
	if opts.MinAllowedDist <= math.MaxInt32 {
		minSqDist = opts.MinAllowedDist * opts.MinAllowedDist
	}
	maxSqDist := opts.MaxSqDist
	if maxSqDist <= 0 {
		maxSqDist = math.MaxInt
	}

	for i, p := range points {
		bestSqDist, bestIdx := maxSqDist, -1
		for j, q := range points {
			if j == i {
				continue
			}
			dx := p.X - q.X
			dy := p.Y - q.Y
			sqDist := dx*dx + dy*dy
			if sqDist < bestSqDist && sqDist > minSqDist {
				bestSqDist = sqDist
				bestIdx = j
			}
		}

		if bestIdx < 0 {
			if opts.SkipUnpaired {
				pairing.Skipped = append(pairing.Skipped, i)
				continue
			}
			return nil, &NeighborError{Index: i, Point: p, Total: len(points)}
		}

		q := points[bestIdx]
		pairing.Points = append(pairing.Points, p)
		pairing.Neighbors = append(pairing.Neighbors, q)
		pairing.Angles = append(pairing.Angles, Orientation(p, q))
	}

	if len(pairing.Points) == 0 && len(points) > 0 {
		return nil, &NeighborError{Index: 0, Point: points[0], Total: len(points)}
	}

	return pairing, nil
}

// Orientation returns the angle of the line through p and q, in [0, π).
func Orientation(p, q Point) float64 {
	return foldPi(math.Atan2(float64(p.Y-q.Y), float64(p.X-q.X)))
}

// foldPi reduces theta modulo π, always returning a non-negative remainder.
func foldPi(theta float64) float64 {
	r := math.Mod(theta, math.Pi)
	if r < 0 {
		r += math.Pi
	}
	return r
}
