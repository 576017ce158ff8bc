package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/tripcomposer/internal/domain"
	"github.com/Domenick1991/tripcomposer/internal/fanout"
	"github.com/Domenick1991/tripcomposer/internal/upstream"
)

type CityReader interface {
	GetCity(ctx context.Context, id string) (*domain.City, error)
}

type LodgingClassReader interface {
	ListLodgingClasses(ctx context.Context) ([]domain.LodgingClass, error)
}

// Result is the outcome of a single reference check.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// SegmentResult collects every problem found in one segment.
type SegmentResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

type Validator struct {
	cities  CityReader
	classes LodgingClassReader
}

func NewValidator(cities CityReader, classes LodgingClassReader) *Validator {
	return &Validator{cities: cities, classes: classes}
}

// ValidateCity reports a missing city as an invalid result. Any other upstream
// failure is returned as an error because it says nothing about the reference.
func (v *Validator) ValidateCity(ctx context.Context, cityID string) (Result, error) {
	if _, err := v.cities.GetCity(ctx, cityID); err != nil {
		if upstream.IsNotFound(err) {
			return Result{Valid: false, Error: fmt.Sprintf("City with ID '%s' does not exist", cityID)}, nil
		}
		return Result{}, err
	}
	return Result{Valid: true}, nil
}

func (v *Validator) ValidateLodgingClass(ctx context.Context, lodgingClass string) (Result, error) {
	classes, err := v.classes.ListLodgingClasses(ctx)
	if err != nil {
		return Result{}, err
	}
	for _, c := range classes {
		if c.Name() == lodgingClass {
			return Result{Valid: true}, nil
		}
	}
	return Result{Valid: false, Error: fmt.Sprintf("Lodging class '%s' does not exist", lodgingClass)}, nil
}

// ValidateSegment accumulates all problems of seg instead of stopping at the
// first one. Reference checks run only for fields that are present.
func (v *Validator) ValidateSegment(ctx context.Context, seg domain.Segment) (SegmentResult, error) {
	errs := make([]string, 0)

	cityID := strings.TrimSpace(seg.CityID.String())
	lodgingClass := strings.TrimSpace(seg.LodgingClass)
	startRaw := strings.TrimSpace(seg.StartDate)
	endRaw := strings.TrimSpace(seg.EndDate)

	if cityID == "" {
		errs = append(errs, "city_id is required")
	}
	if lodgingClass == "" {
		errs = append(errs, "lodging_class is required")
	}
	if startRaw == "" {
		errs = append(errs, "start_date is required")
	}
	if endRaw == "" {
		errs = append(errs, "end_date is required")
	}

	cityResult, classResult, err := fanout.Pair(
		func() (Result, error) {
			if cityID == "" {
				return Result{Valid: true}, nil
			}
			return v.ValidateCity(ctx, cityID)
		},
		func() (Result, error) {
			if lodgingClass == "" {
				return Result{Valid: true}, nil
			}
			return v.ValidateLodgingClass(ctx, lodgingClass)
		},
	)
	if err != nil {
		return SegmentResult{}, err
	}
	if !cityResult.Valid {
		errs = append(errs, cityResult.Error)
	}
	if !classResult.Valid {
		errs = append(errs, classResult.Error)
	}

	if startRaw != "" && endRaw != "" {
		errs = append(errs, checkDates(startRaw, endRaw)...)
	}

	return SegmentResult{Valid: len(errs) == 0, Errors: errs}, nil
}

func checkDates(startRaw, endRaw string) []string {
	start, startErr := domain.ParseDate(startRaw)
	end, endErr := domain.ParseDate(endRaw)

	var errs []string
	if startErr != nil {
		errs = append(errs, "start_date must be a valid date")
	}
	if endErr != nil {
		errs = append(errs, "end_date must be a valid date")
	}
	if len(errs) > 0 {
		return errs
	}
	if !end.After(start) {
		return []string{"end_date must be after start_date"}
	}
	return nil
}
