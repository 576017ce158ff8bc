package domain

type Itinerary struct {
	ID         ID         `json:"id,omitempty"`
	Attributes Attributes `json:"-"`
}

type itineraryFields Itinerary

func (i *Itinerary) UnmarshalJSON(data []byte) error {
	return decodeObject(data, (*itineraryFields)(i), &i.Attributes, "id")
}

func (i Itinerary) MarshalJSON() ([]byte, error) {
	return encodeObject(itineraryFields(i), i.Attributes, nil)
}

// Segment is one leg of an itinerary. Dates are kept as sent; see ParseDate.
type Segment struct {
	ID           ID         `json:"id,omitempty"`
	ItineraryID  ID         `json:"itinerary_id,omitempty"`
	CityID       ID         `json:"city_id,omitempty"`
	LodgingClass string     `json:"lodging_class,omitempty"`
	StartDate    string     `json:"start_date,omitempty"`
	EndDate      string     `json:"end_date,omitempty"`
	Attributes   Attributes `json:"-"`
}

type segmentFields Segment

func (s *Segment) UnmarshalJSON(data []byte) error {
	return decodeObject(data, (*segmentFields)(s), &s.Attributes,
		"id", "itinerary_id", "city_id", "lodging_class", "start_date", "end_date")
}

func (s Segment) MarshalJSON() ([]byte, error) {
	return encodeObject(segmentFields(s), s.Attributes, nil)
}

// EnrichedSegment is a segment merged with its city and matching rates.
type EnrichedSegment struct {
	Segment
	CityName    string
	CountryCode string
	Currency    string
	Rates       []Rate
}

func (e EnrichedSegment) MarshalJSON() ([]byte, error) {
	rates := e.Rates
	if rates == nil {
		rates = []Rate{}
	}
	return encodeObject(segmentFields(e.Segment), e.Segment.Attributes, map[string]any{
		"city_name":    e.CityName,
		"country_code": e.CountryCode,
		"currency":     e.Currency,
		"rates":        rates,
	})
}

// ComposedItinerary is an itinerary whose segments were replaced by enriched ones.
type ComposedItinerary struct {
	Itinerary
	Segments []EnrichedSegment
}

func (c ComposedItinerary) MarshalJSON() ([]byte, error) {
	segments := c.Segments
	if segments == nil {
		segments = []EnrichedSegment{}
	}
	return encodeObject(itineraryFields(c.Itinerary), c.Itinerary.Attributes, map[string]any{"segments": segments})
}

// CreatedItinerary is the itinerary returned by the itineraries service plus
// the segments created for it. Segments is nil when none were supplied.
type CreatedItinerary struct {
	Itinerary
	Segments []Segment
}

func (c CreatedItinerary) MarshalJSON() ([]byte, error) {
	if c.Segments == nil {
		return c.Itinerary.MarshalJSON()
	}
	return encodeObject(itineraryFields(c.Itinerary), c.Itinerary.Attributes, map[string]any{"segments": c.Segments})
}

type SegmentQuote struct {
	SegmentID     ID      `json:"segment_id"`
	CityName      string  `json:"city_name"`
	LodgingClass  string  `json:"lodging_class"`
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"price_per_night"`
	Currency      string  `json:"currency"`
	Total         float64 `json:"total"`
}

// ItineraryQuote totals are plain sums; Currencies lists every distinct
// segment currency so callers can spot mixed units.
type ItineraryQuote struct {
	ItineraryID ID             `json:"itinerary_id,omitempty"`
	Total       float64        `json:"total"`
	Currencies  []string       `json:"currencies,omitempty"`
	Segments    []SegmentQuote `json:"segments"`
}
