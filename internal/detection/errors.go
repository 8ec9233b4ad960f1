package detection

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBlobsDetected is returned when the mask yields no apex points.
	ErrNoBlobsDetected = errors.New("no blobs detected")

	// ErrInsufficientNeighbors is returned when an apex has no other apex
	// farther than the minimum allowed distance.
	ErrInsufficientNeighbors = errors.New("insufficient neighbors")

	// ErrEmptyCluster is returned when one of the two angle clusters is empty,
	// so no line can be fitted through it.
	ErrEmptyCluster = errors.New("empty cluster")
)

// NeighborError identifies the apex that could not be paired.
type NeighborError struct {
	Index int   // Position of the apex in scan order
	Point Point // The apex itself
	Total int   // Number of apexes that were searched
}

func (e *NeighborError) Error() string {
	return fmt.Sprintf("apex %d at (%d,%d) has no eligible neighbor among %d apexes: %v",
		e.Index, e.Point.X, e.Point.Y, e.Total, ErrInsufficientNeighbors)
}

// Unwrap lets errors.Is match ErrInsufficientNeighbors.
func (e *NeighborError) Unwrap() error {
	return ErrInsufficientNeighbors
}
