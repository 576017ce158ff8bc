package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Domenick1991/tripcomposer/internal/domain"
)

// DestinationsClient reads cities and seasons from the destinations service.
type DestinationsClient struct {
	client *Client
}

func NewDestinationsClient(baseURL string, opts ...Option) *DestinationsClient {
	return &DestinationsClient{client: NewClient("destinations", baseURL, opts...)}
}

func (d *DestinationsClient) GetCity(ctx context.Context, id string) (*domain.City, error) {
	city, err := Get[domain.City](ctx, d.client, "/cities/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (d *DestinationsClient) ListCities(ctx context.Context, limit int) ([]domain.City, error) {
	page, err := Get[domain.PagedResult[domain.City]](ctx, d.client, fmt.Sprintf("/cities?limit=%d", limit))
	if err != nil {
		return nil, err
	}
	return page.Items(), nil
}

func (d *DestinationsClient) ListSeasons(ctx context.Context, limit int) ([]domain.Season, error) {
	page, err := Get[domain.PagedResult[domain.Season]](ctx, d.client, fmt.Sprintf("/seasons?limit=%d", limit))
	if err != nil {
		return nil, err
	}
	return page.Items(), nil
}

// PricingClient reads lodging classes and rates from the pricing service.
type PricingClient struct {
	client *Client
}

func NewPricingClient(baseURL string, opts ...Option) *PricingClient {
	return &PricingClient{client: NewClient("pricing", baseURL, opts...)}
}

func (p *PricingClient) ListLodgingClasses(ctx context.Context) ([]domain.LodgingClass, error) {
	page, err := Get[domain.PagedResult[domain.LodgingClass]](ctx, p.client, "/lodging-classes")
	if err != nil {
		return nil, err
	}
	return page.Items(), nil
}

func (p *PricingClient) ListRates(ctx context.Context, cityID, lodgingClass string) ([]domain.Rate, error) {
	query := url.Values{}
	query.Set("city_id", cityID)
	query.Set("lodging_class", lodgingClass)
	page, err := Get[domain.PagedResult[domain.Rate]](ctx, p.client, "/rates?"+query.Encode())
	if err != nil {
		return nil, err
	}
	return page.Items(), nil
}

// ItinerariesClient reads and writes itineraries and their segments.
type ItinerariesClient struct {
	client *Client
}

func NewItinerariesClient(baseURL string, opts ...Option) *ItinerariesClient {
	return &ItinerariesClient{client: NewClient("itineraries", baseURL, opts...)}
}

func (i *ItinerariesClient) GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error) {
	it, err := Get[domain.Itinerary](ctx, i.client, itineraryPath(id))
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (i *ItinerariesClient) ListSegments(ctx context.Context, itineraryID string) ([]domain.Segment, error) {
	page, err := Get[domain.PagedResult[domain.Segment]](ctx, i.client, itineraryPath(itineraryID)+"/segments")
	if err != nil {
		return nil, err
	}
	return page.Items(), nil
}

func (i *ItinerariesClient) CreateItinerary(ctx context.Context, it domain.Itinerary) (*domain.Itinerary, error) {
	created, err := Post[domain.Itinerary](ctx, i.client, "/itineraries", it)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (i *ItinerariesClient) CreateSegment(ctx context.Context, itineraryID string, seg domain.Segment) (*domain.Segment, error) {
	created, err := Post[domain.Segment](ctx, i.client, itineraryPath(itineraryID)+"/segments", seg)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteItinerary treats an itinerary that is already gone as deleted.
func (i *ItinerariesClient) DeleteItinerary(ctx context.Context, id string) error {
	err := i.client.Delete(ctx, itineraryPath(id))
	if err != nil && IsNotFound(err) {
		return nil
	}
	return err
}

func itineraryPath(id string) string {
	return "/itineraries/" + url.PathEscape(id)
}
