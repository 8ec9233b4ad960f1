package detection

// ScanApexes finds the apex of every upward-pointing blob in a mask.
//
// Parameters:
//   - m: The binary object mask. A nil or empty mask yields no apexes.
//
// Returns:
//   - []Point: One apex per newly seen blob, in scan order (top-to-bottom,
//     then left-to-right). The slice is empty, never nil.
//
// # Algorithm
//
// The mask is scanned row by row, left to right, in a single pass:
//
//  1. A true pixel with no open run opens a run.
//  2. While the run is open, a true pixel whose neighbor directly above is
//     also true marks the run as a continuation of a blob already recorded
//     in an earlier row.
//  3. The first false pixel closes the run. A run that was never marked as
//     a continuation is a new blob and its apex is recorded at that column.
//
// The recorded X is the column just past the last true pixel of the run,
// not its start or center. Downstream fits depend on that exact column.
//
// # Limitations
//
//   - A run that is still open when the row ends (it touches the right edge
//     of the mask) is not recorded.
//   - Connectivity is only what the scan sees: a blob that is first reached
//     through two separate runs in its top row is reported twice.
func ScanApexes(m *Mask) []Point {
	apexes := make([]Point, 0)
	if m == nil || m.Width == 0 || m.Height == 0 {
		return apexes
	}

	rowAbove := make([]bool, m.Width)
	for y := 0; y < m.Height; y++ {
		row := m.Row(y)
		runOpen := false
		runRejected := false

		for x := 0; x < m.Width; x++ {
			if row[x] && !runOpen {
				runOpen = true
				runRejected = false
			}
			if runOpen && row[x] && rowAbove[x] && !runRejected {
				runRejected = true
			} else if runOpen && !row[x] {
				runOpen = false
				if !runRejected {
					apexes = append(apexes, Point{X: x, Y: y})
				}
			}
		}

		rowAbove = row
	}

	return apexes
}
