package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LodgingClass is listed by the pricing service either as a bare string or as
// an object with a class_name member.
type LodgingClass struct {
	ClassName string `json:"class_name"`
}

func (l *LodgingClass) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &l.ClassName)
	}
	var obj struct {
		ClassName string `json:"class_name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("lodging class must be a string or an object with class_name: %w", err)
	}
	l.ClassName = obj.ClassName
	return nil
}

func (l LodgingClass) Name() string {
	return l.ClassName
}

// Price is a decimal amount as sent by the pricing service (a numeric string
// such as "100.00"). Plain JSON numbers are accepted as well.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a numeric string or a number: %w", err)
	}
	*p = Price(n.String())
	return nil
}

func (p Price) Float64() (float64, error) {
	if p == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(string(p), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", string(p), err)
	}
	return v, nil
}

type Rate struct {
	ID            ID         `json:"id,omitempty"`
	CityID        ID         `json:"city_id,omitempty"`
	LodgingClass  string     `json:"lodging_class,omitempty"`
	PricePerNight Price      `json:"price_per_night"`
	Attributes    Attributes `json:"-"`
}

type rateFields Rate

func (r *Rate) UnmarshalJSON(data []byte) error {
	return decodeObject(data, (*rateFields)(r), &r.Attributes, "id", "city_id", "lodging_class", "price_per_night")
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return encodeObject(rateFields(r), r.Attributes, nil)
}
