package composite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/tripcomposer/internal/domain"
	"github.com/Domenick1991/tripcomposer/internal/fanout"
	"github.com/Domenick1991/tripcomposer/internal/kafka"
	"github.com/Domenick1991/tripcomposer/internal/logger"
	"github.com/Domenick1991/tripcomposer/internal/service/validation"
)

const (
	defaultPageLimit      = 100
	orphanPublishAttempts = 3
)

type CompositeUseCase interface {
	GetItinerary(ctx context.Context, id string) (*domain.ComposedItinerary, error)
	ListDestinations(ctx context.Context) ([]domain.CityWithSeasons, error)
	CreateItinerary(ctx context.Context, input CreateItineraryInput) (*domain.CreatedItinerary, error)
	QuoteItinerary(ctx context.Context, id string) (*domain.ItineraryQuote, error)
}

type Destinations interface {
	GetCity(ctx context.Context, id string) (*domain.City, error)
	ListCities(ctx context.Context, limit int) ([]domain.City, error)
	ListSeasons(ctx context.Context, limit int) ([]domain.Season, error)
}

type Pricing interface {
	ListLodgingClasses(ctx context.Context) ([]domain.LodgingClass, error)
	ListRates(ctx context.Context, cityID, lodgingClass string) ([]domain.Rate, error)
}

type Itineraries interface {
	GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error)
	ListSegments(ctx context.Context, itineraryID string) ([]domain.Segment, error)
	CreateItinerary(ctx context.Context, it domain.Itinerary) (*domain.Itinerary, error)
	CreateSegment(ctx context.Context, itineraryID string, seg domain.Segment) (*domain.Segment, error)
}

type SegmentValidator interface {
	ValidateSegment(ctx context.Context, seg domain.Segment) (validation.SegmentResult, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// RetryPublisher is used for events that must not be dropped. The worker
// relies on orphan events to clean up.
type RetryPublisher interface {
	Publisher
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

type CreateItineraryInput struct {
	Itinerary *domain.Itinerary `json:"itinerary"`
	Segments  []domain.Segment  `json:"segments"`
}

type CompositeService struct {
	destinations Destinations
	pricing      Pricing
	itineraries  Itineraries
	validator    SegmentValidator
	publisher    Publisher
	eventsTopic  string
	pageLimit    int
	log          *logger.Logger
}

type CompositeServiceOption func(*CompositeService)

// WithEvents publishes itinerary events to topic. A nil publisher disables events.
func WithEvents(publisher Publisher, topic string) CompositeServiceOption {
	return func(s *CompositeService) {
		s.publisher = publisher
		s.eventsTopic = topic
	}
}

func WithPageLimit(limit int) CompositeServiceOption {
	return func(s *CompositeService) {
		if limit > 0 {
			s.pageLimit = limit
		}
	}
}

func WithLogger(log *logger.Logger) CompositeServiceOption {
	return func(s *CompositeService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewCompositeService(
	destinations Destinations,
	pricing Pricing,
	itineraries Itineraries,
	validator SegmentValidator,
	opts ...CompositeServiceOption,
) *CompositeService {
	service := &CompositeService{
		destinations: destinations,
		pricing:      pricing,
		itineraries:  itineraries,
		validator:    validator,
		pageLimit:    defaultPageLimit,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// GetItinerary issues 2 + 2N upstream calls for an itinerary with N segments.
func (s *CompositeService) GetItinerary(ctx context.Context, id string) (*domain.ComposedItinerary, error) {
	it, segments, err := fanout.Pair(
		func() (*domain.Itinerary, error) { return s.itineraries.GetItinerary(ctx, id) },
		func() ([]domain.Segment, error) { return s.itineraries.ListSegments(ctx, id) },
	)
	if err != nil {
		return nil, err
	}

	enriched, err := fanout.Each(segments, func(_ int, seg domain.Segment) (domain.EnrichedSegment, error) {
		city, rates, err := s.lookupSegment(ctx, seg)
		if err != nil {
			return domain.EnrichedSegment{}, err
		}
		return domain.EnrichedSegment{
			Segment:     seg,
			CityName:    city.Name,
			CountryCode: city.CountryCode,
			Currency:    city.Currency,
			Rates:       rates,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.ComposedItinerary{Itinerary: *it, Segments: enriched}, nil
}

// ListDestinations reads only the first page of cities and seasons.
func (s *CompositeService) ListDestinations(ctx context.Context) ([]domain.CityWithSeasons, error) {
	cities, seasons, err := fanout.Pair(
		func() ([]domain.City, error) { return s.destinations.ListCities(ctx, s.pageLimit) },
		func() ([]domain.Season, error) { return s.destinations.ListSeasons(ctx, s.pageLimit) },
	)
	if err != nil {
		return nil, err
	}

	byCity := make(map[domain.ID][]domain.Season)
	for _, season := range seasons {
		byCity[season.CityID] = append(byCity[season.CityID], season)
	}

	out := make([]domain.CityWithSeasons, 0, len(cities))
	for _, city := range cities {
		citySeasons := byCity[city.ID]
		if citySeasons == nil {
			citySeasons = []domain.Season{}
		}
		out = append(out, domain.CityWithSeasons{City: city, Seasons: citySeasons})
	}
	return out, nil
}

// CreateItinerary validates every segment before writing anything. Once the
// itinerary exists a segment failure is reported as *PartialCreateError.
func (s *CompositeService) CreateItinerary(ctx context.Context, input CreateItineraryInput) (*domain.CreatedItinerary, error) {
	if input.Itinerary == nil {
		return nil, ErrItineraryRequired
	}

	if len(input.Segments) > 0 {
		if err := s.validateSegments(ctx, input.Segments); err != nil {
			return nil, err
		}
	}

	created, err := s.itineraries.CreateItinerary(ctx, *input.Itinerary)
	if err != nil {
		return nil, err
	}

	if len(input.Segments) == 0 {
		s.publish(ctx, kafka.ItineraryEvent{Type: kafka.EventItineraryCreated, ItineraryID: created.ID.String()})
		return &domain.CreatedItinerary{Itinerary: *created}, nil
	}

	itineraryID := created.ID.String()
	if itineraryID == "" {
		err := errors.New("itineraries service returned an itinerary without id")
		return nil, &PartialCreateError{Err: err}
	}

	segments, err := fanout.Each(input.Segments, func(_ int, seg domain.Segment) (domain.Segment, error) {
		createdSeg, err := s.itineraries.CreateSegment(ctx, itineraryID, seg)
		if err != nil {
			return domain.Segment{}, err
		}
		return *createdSeg, nil
	})
	if err != nil {
		s.log.Error("segment creation failed after itinerary was created",
			"itinerary_id", itineraryID,
			"segments", len(input.Segments),
			"error", err,
		)
		s.publish(ctx, kafka.ItineraryEvent{
			Type:         kafka.EventItineraryOrphaned,
			ItineraryID:  itineraryID,
			SegmentCount: len(input.Segments),
			Error:        err.Error(),
		})
		return nil, &PartialCreateError{ItineraryID: created.ID, Err: err}
	}

	s.publish(ctx, kafka.ItineraryEvent{
		Type:         kafka.EventItineraryCreated,
		ItineraryID:  itineraryID,
		SegmentCount: len(segments),
	})
	return &domain.CreatedItinerary{Itinerary: *created, Segments: segments}, nil
}

func (s *CompositeService) validateSegments(ctx context.Context, segments []domain.Segment) error {
	results, err := fanout.Each(segments, func(_ int, seg domain.Segment) (validation.SegmentResult, error) {
		return s.validator.ValidateSegment(ctx, seg)
	})
	if err != nil {
		return err
	}

	var invalid []SegmentErrors
	for i, res := range results {
		if !res.Valid {
			invalid = append(invalid, SegmentErrors{Index: i, Errors: res.Errors})
		}
	}
	if len(invalid) > 0 {
		return &ValidationError{Segments: invalid}
	}
	return nil
}

// QuoteItinerary prices every segment as nights × first matching rate.
// Totals are summed without currency conversion.
func (s *CompositeService) QuoteItinerary(ctx context.Context, id string) (*domain.ItineraryQuote, error) {
	segments, err := s.itineraries.ListSegments(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return &domain.ItineraryQuote{Total: 0, Segments: []domain.SegmentQuote{}}, nil
	}

	quotes, err := fanout.Each(segments, func(_ int, seg domain.Segment) (domain.SegmentQuote, error) {
		return s.quoteSegment(ctx, seg)
	})
	if err != nil {
		return nil, err
	}

	var (
		total      float64
		currencies []string
		seen       = map[string]bool{}
	)
	for _, q := range quotes {
		total += q.Total
		if q.Currency != "" && !seen[q.Currency] {
			seen[q.Currency] = true
			currencies = append(currencies, q.Currency)
		}
	}
	if len(currencies) > 1 {
		s.log.Warn("quote sums segments in different currencies", "itinerary_id", id, "currencies", currencies)
	}

	return &domain.ItineraryQuote{
		ItineraryID: domain.ID(id),
		Total:       total,
		Currencies:  currencies,
		Segments:    quotes,
	}, nil
}

func (s *CompositeService) quoteSegment(ctx context.Context, seg domain.Segment) (domain.SegmentQuote, error) {
	city, rates, err := s.lookupSegment(ctx, seg)
	if err != nil {
		return domain.SegmentQuote{}, err
	}

	start, err := domain.ParseDate(seg.StartDate)
	if err != nil {
		return domain.SegmentQuote{}, fmt.Errorf("segment %s: start_date: %w", seg.ID, err)
	}
	end, err := domain.ParseDate(seg.EndDate)
	if err != nil {
		return domain.SegmentQuote{}, fmt.Errorf("segment %s: end_date: %w", seg.ID, err)
	}
	nights := domain.Nights(start, end)

	pricePerNight := 0.0
	if len(rates) > 0 {
		pricePerNight, err = rates[0].PricePerNight.Float64()
		if err != nil {
			return domain.SegmentQuote{}, fmt.Errorf("segment %s: %w", seg.ID, err)
		}
	}

	return domain.SegmentQuote{
		SegmentID:     seg.ID,
		CityName:      city.Name,
		LodgingClass:  seg.LodgingClass,
		Nights:        nights,
		PricePerNight: pricePerNight,
		Currency:      city.Currency,
		Total:         pricePerNight * float64(nights),
	}, nil
}

// lookupSegment reads the segment's city and its matching rates in parallel.
func (s *CompositeService) lookupSegment(ctx context.Context, seg domain.Segment) (*domain.City, []domain.Rate, error) {
	cityID := seg.CityID.String()
	return fanout.Pair(
		func() (*domain.City, error) { return s.destinations.GetCity(ctx, cityID) },
		func() ([]domain.Rate, error) { return s.pricing.ListRates(ctx, cityID, seg.LodgingClass) },
	)
}

func (s *CompositeService) publish(ctx context.Context, event kafka.ItineraryEvent) {
	if s.publisher == nil || s.eventsTopic == "" {
		return
	}
	event.OccurredAt = time.Now().UTC()

	var err error
	if retrying, ok := s.publisher.(RetryPublisher); ok && event.Type == kafka.EventItineraryOrphaned {
		err = retrying.PublishWithRetry(ctx, s.eventsTopic, event.ItineraryID, event, orphanPublishAttempts)
	} else {
		err = s.publisher.Publish(ctx, s.eventsTopic, event.ItineraryID, event)
	}
	if err != nil {
		s.log.Warn("failed to publish itinerary event",
			"type", event.Type,
			"itinerary_id", event.ItineraryID,
			"error", err,
		)
	}
}

var _ CompositeUseCase = (*CompositeService)(nil)
