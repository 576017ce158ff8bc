package composite

import (
	"errors"
	"fmt"

	"github.com/Domenick1991/tripcomposer/internal/domain"
)

var ErrItineraryRequired = errors.New("itinerary is required")

// SegmentErrors lists the problems of the segment at Index in the request.
type SegmentErrors struct {
	Index  int      `json:"index"`
	Errors []string `json:"errors"`
}

// ValidationError aborts a composite create before anything is written.
// Segments follow the order of the request.
type ValidationError struct {
	Segments []SegmentErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("segment validation failed for %d segment(s)", len(e.Segments))
}

// PartialCreateError means the itinerary exists upstream but creating its
// segments failed. The itinerary is not rolled back.
type PartialCreateError struct {
	ItineraryID domain.ID
	Err         error
}

func (e *PartialCreateError) Error() string {
	return fmt.Sprintf("itinerary %s was created but its segments could not be created: %v", e.ItineraryID, e.Err)
}

func (e *PartialCreateError) Unwrap() error { return e.Err }
