// Package detection locates cone apexes in a binary mask and fits the two
// boundary lines that run through them.
//
// The package is independent of how the mask was produced. It works on a
// Mask (a row-major grid of booleans) and returns plain integer geometry, so
// it can be driven from synthetic masks in tests as easily as from real
// images.
//
// # Pipeline
//
// Detect chains three stages, each consuming only the previous stage's output:
//
//  1. ScanApexes: a single row-major pass over the mask that records one apex
//     per blob, at the column where the blob's topmost run ends.
//  2. PairNeighbors: for every apex, the nearest other apex farther than a
//     minimum distance; the direction to it is folded into [0, π).
//  3. FitBoundaries: apexes are split at π/2 into two clusters and one line
//     is fitted through each cluster's mean point along its mean angle.
//
// # Coordinate System
//
// Coordinates use the mask's pixel grid:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Fitted segment endpoints are not clamped to the mask and may lie far
// outside it. Renderers are expected to clip.
//
// # Errors
//
// Three input-dependent failures abort a run. They are sentinel errors and
// should be tested with errors.Is:
//   - ErrNoBlobsDetected: the scanner found no apex at all
//   - ErrInsufficientNeighbors: an apex has no eligible neighbor
//   - ErrEmptyCluster: one of the two angle clusters has no members
//
// None of them are transient; retrying on the same mask gives the same result.
package detection
