package detection

import (
	"errors"
	"math"
	"testing"
)

// createConeMask places 5x5 squares so that each square's apex lands on the
// given point (the apex is one past the square's right edge).
func createConeMask(t *testing.T, width, height int, apexes ...Point) *Mask {
	t.Helper()
	m := createTestMask(t, width, height)
	for _, a := range apexes {
		fillRect(m, a.X-5, a.Y, a.X-1, a.Y+4)
	}
	return m
}

func TestDetect_NoBlobs(t *testing.T) {
	m := createTestMask(t, 64, 48)

	_, err := Detect(m, DefaultPairOptions())
	if !errors.Is(err, ErrNoBlobsDetected) {
		t.Errorf("expected ErrNoBlobsDetected, got %v", err)
	}
}

func TestDetect_SingleBlob(t *testing.T) {
	m := createTestMask(t, 64, 48)
	fillRect(m, 20, 10, 24, 14)

	apexes := ScanApexes(m)
	if !equalPoints(apexes, []Point{{25, 10}}) {
		t.Fatalf("ScanApexes: got %v, want [(25,10)]", apexes)
	}

	_, err := Detect(m, DefaultPairOptions())
	if !errors.Is(err, ErrInsufficientNeighbors) {
		t.Errorf("expected ErrInsufficientNeighbors, got %v", err)
	}
}

func TestDetect_TwoBlobsSameCluster(t *testing.T) {
	m := createTestMask(t, 200, 100)
	fillRect(m, 20, 10, 24, 14)
	fillRect(m, 100, 50, 104, 54)

	apexes := ScanApexes(m)
	want := []Point{{25, 10}, {105, 50}}
	if !equalPoints(apexes, want) {
		t.Fatalf("ScanApexes: got %v, want %v", apexes, want)
	}

	pairing, err := PairNeighbors(apexes, DefaultPairOptions())
	if err != nil {
		t.Fatalf("PairNeighbors failed: %v", err)
	}
	if pairing.Neighbors[0] != apexes[1] || pairing.Neighbors[1] != apexes[0] {
		t.Errorf("apexes should pair with each other, got %v", pairing.Neighbors)
	}
	if math.Abs(pairing.Angles[0]-pairing.Angles[1]) > angleTolerance {
		t.Errorf("angles should match: %v", pairing.Angles)
	}

	_, err = Detect(m, DefaultPairOptions())
	if !errors.Is(err, ErrEmptyCluster) {
		t.Errorf("expected ErrEmptyCluster, got %v", err)
	}
}

func TestDetect_TwoBoundaries(t *testing.T) {
	// Left boundary rises to the right, right boundary rises to the left.
	m := createConeMask(t, 700, 400,
		Point{100, 300}, Point{150, 200},
		Point{550, 300}, Point{500, 200},
	)

	result, err := Detect(m, DefaultPairOptions())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	wantApexes := []Point{{150, 200}, {500, 200}, {100, 300}, {550, 300}}
	if !equalPoints(result.Apexes, wantApexes) {
		t.Fatalf("Apexes: got %v, want %v", result.Apexes, wantApexes)
	}

	wantNeighbors := []Point{{100, 300}, {550, 300}, {150, 200}, {500, 200}}
	if !equalPoints(result.Pairing.Neighbors, wantNeighbors) {
		t.Errorf("Neighbors: got %v, want %v", result.Pairing.Neighbors, wantNeighbors)
	}

	left, right := result.Lines[0], result.Lines[1]
	if !equalInts(left.Cluster.Members, []int{0, 2}) || !equalInts(right.Cluster.Members, []int{1, 3}) {
		t.Errorf("clusters: got A=%v B=%v", left.Cluster.Members, right.Cluster.Members)
	}
	if left.MeanX != 125 || left.MeanY != 250 || right.MeanX != 525 || right.MeanY != 250 {
		t.Errorf("mean points: A=(%v,%v) B=(%v,%v)", left.MeanX, left.MeanY, right.MeanX, right.MeanY)
	}
	if math.Abs(left.Slope+2) > 1e-9 || math.Abs(right.Slope-2) > 1e-9 {
		t.Errorf("slopes: got A=%v B=%v, want -2 and 2", left.Slope, right.Slope)
	}

	segs := result.Segments()
	if len(segs) != 2 || segs[0] != left.Segment || segs[1] != right.Segment {
		t.Errorf("Segments: got %v", segs)
	}
	if segs[0].Start.X != -875 || segs[0].End.X != 1125 {
		t.Errorf("segment A X range: got %d..%d", segs[0].Start.X, segs[0].End.X)
	}
}

func TestDetect_SkipUnpaired(t *testing.T) {
	// Every apex has an eligible neighbor, so nothing is skipped.
	m := createConeMask(t, 700, 400,
		Point{100, 300}, Point{150, 200},
		Point{550, 300}, Point{500, 200},
	)

	opts := DefaultPairOptions()
	opts.SkipUnpaired = true
	result, err := Detect(m, opts)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(result.Pairing.Skipped) != 0 {
		t.Errorf("Skipped: got %v, want none", result.Pairing.Skipped)
	}
}

func TestDetect_ExplicitMaxSqDist(t *testing.T) {
	m := createConeMask(t, 700, 400,
		Point{100, 300}, Point{150, 200},
		Point{550, 300}, Point{500, 200},
	)

	opts := DefaultPairOptions()
	opts.MaxSqDist = 100 * 100
	_, err := Detect(m, opts)
	if !errors.Is(err, ErrInsufficientNeighbors) {
		t.Errorf("expected ErrInsufficientNeighbors, got %v", err)
	}
}
