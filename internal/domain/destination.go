package domain

type City struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	CountryCode string     `json:"country_code,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Attributes  Attributes `json:"-"`
}

type cityFields City

func (c *City) UnmarshalJSON(data []byte) error {
	return decodeObject(data, (*cityFields)(c), &c.Attributes, "id", "name", "country_code", "currency")
}

func (c City) MarshalJSON() ([]byte, error) {
	return encodeObject(cityFields(c), c.Attributes, nil)
}

type Season struct {
	ID         ID         `json:"id,omitempty"`
	CityID     ID         `json:"city_id"`
	Attributes Attributes `json:"-"`
}

type seasonFields Season

func (s *Season) UnmarshalJSON(data []byte) error {
	return decodeObject(data, (*seasonFields)(s), &s.Attributes, "id", "city_id")
}

func (s Season) MarshalJSON() ([]byte, error) {
	return encodeObject(seasonFields(s), s.Attributes, nil)
}

// CityWithSeasons is a city with the seasons the destinations service lists for it.
type CityWithSeasons struct {
	City
	Seasons []Season
}

func (c CityWithSeasons) MarshalJSON() ([]byte, error) {
	seasons := c.Seasons
	if seasons == nil {
		seasons = []Season{}
	}
	return encodeObject(cityFields(c.City), c.City.Attributes, map[string]any{"seasons": seasons})
}
