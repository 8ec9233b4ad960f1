package detection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Line extent on either side of a cluster's mean point, in X units.
const (
	lineStartT = -1000
	lineEndT   = 1000
)

// Cluster names. A holds angles above π/2, B the rest.
const (
	ClusterA = "A"
	ClusterB = "B"
)

// Cluster is a set of indexes into a Pairing.
type Cluster struct {
	Name    string `json:"name"`
	Members []int  `json:"members"`
}

// Segment is a line segment with integer endpoints, ready to rasterize.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// BoundaryLine is one fitted boundary and the statistics it was built from.
type BoundaryLine struct {
	Cluster   Cluster `json:"cluster"`
	MeanX     float64 `json:"mean_x"`
	MeanY     float64 `json:"mean_y"`
	MeanTheta float64 `json:"mean_theta"` // Radians
	Slope     float64 `json:"slope"`      // tan(MeanTheta)
	Segment   Segment `json:"segment"`
}

// SplitClusters partitions angle indexes at π/2. Index i goes to cluster A
// when angles[i] > π/2 and to cluster B otherwise, so the two clusters
// together cover every index exactly once.
func SplitClusters(angles []float64) (a, b Cluster) {
	a = Cluster{Name: ClusterA, Members: make([]int, 0)}
	b = Cluster{Name: ClusterB, Members: make([]int, 0)}
	for i, theta := range angles {
		if theta > math.Pi/2 {
			a.Members = append(a.Members, i)
		} else {
			b.Members = append(b.Members, i)
		}
	}
	return a, b
}

// FitLine fits one boundary line through the members of a cluster.
//
// The line passes through the mean member position along the mean member
// angle. The angle mean is a plain arithmetic mean of values in [0, π), so
// clusters straddling the 0/π wrap average toward π/2.
//
// The segment runs from X-1000 to X+1000 around the mean point. Endpoints
// are truncated toward zero and are not clamped to any image.
//
// Returns an error wrapping ErrEmptyCluster when the cluster has no members.
func FitLine(p *Pairing, c Cluster) (BoundaryLine, error) {
	if len(c.Members) == 0 {
		return BoundaryLine{}, fmt.Errorf("cluster %s: %w", c.Name, ErrEmptyCluster)
	}

	xs := make([]float64, len(c.Members))
	ys := make([]float64, len(c.Members))
	thetas := make([]float64, len(c.Members))
	for k, i := range c.Members {
		xs[k] = float64(p.Points[i].X)
		ys[k] = float64(p.Points[i].Y)
		thetas[k] = p.Angles[i]
	}

	meanX := stat.Mean(xs, nil)
	meanY := stat.Mean(ys, nil)
	meanTheta := stat.Mean(thetas, nil)
	slope := math.Tan(meanTheta)

	return BoundaryLine{
		Cluster:   c,
		MeanX:     meanX,
		MeanY:     meanY,
		MeanTheta: meanTheta,
		Slope:     slope,
		Segment: Segment{
			Start: Point{
				X: truncate(meanX + lineStartT),
				Y: truncate(meanY + lineStartT*slope),
			},
			End: Point{
				X: truncate(meanX + lineEndT),
				Y: truncate(meanY + lineEndT*slope),
			},
		},
	}, nil
}

// FitBoundaries splits a pairing into its two angle clusters and fits a
// line through each. The result is ordered A then B.
//
// Either cluster being empty fails the whole fit with ErrEmptyCluster; a
// single line is never returned on its own.
func FitBoundaries(p *Pairing) ([2]BoundaryLine, error) {
	var lines [2]BoundaryLine

	a, b := SplitClusters(p.Angles)
	for k, c := range []Cluster{a, b} {
		line, err := FitLine(p, c)
		if err != nil {
			return lines, err
		}
		lines[k] = line
	}

	return lines, nil
}

// truncate drops the fractional part of v. Values beyond the 32-bit
// coordinate range saturate at its limits.
func truncate(v float64) int {
	switch {
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}
