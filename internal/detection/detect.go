package detection

import "fmt"

// Result is everything one detection run produced.
type Result struct {
	Apexes  []Point         `json:"apexes"`
	Pairing *Pairing        `json:"pairing"`
	Lines   [2]BoundaryLine `json:"lines"` // Cluster A, then cluster B
}

// Segments returns the two fitted segments in A, B order.
func (r *Result) Segments() []Segment {
	return []Segment{r.Lines[0].Segment, r.Lines[1].Segment}
}

// Detect runs the apex scan, neighbor pairing and line fit on a mask.
//
// When opts.MaxSqDist is zero it is set to the squared mask diagonal.
//
// Returns an error matching ErrNoBlobsDetected, ErrInsufficientNeighbors or
// ErrEmptyCluster when the corresponding stage cannot proceed. No partial
// result is returned alongside an error.
func Detect(m *Mask, opts PairOptions) (*Result, error) {
	apexes := ScanApexes(m)
	if len(apexes) == 0 {
		return nil, ErrNoBlobsDetected
	}

	if opts.MaxSqDist == 0 {
		opts.MaxSqDist = m.Width*m.Width + m.Height*m.Height
	}

	pairing, err := PairNeighbors(apexes, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to pair apexes: %w", err)
	}

	lines, err := FitBoundaries(pairing)
	if err != nil {
		return nil, fmt.Errorf("failed to fit boundaries: %w", err)
	}

	return &Result{
		Apexes:  apexes,
		Pairing: pairing,
		Lines:   lines,
	}, nil
}
