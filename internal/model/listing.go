package model

// Listing - вариант жилья из результатов поиска Airbnb.
type Listing struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	URL              string      `json:"url"`
	Rating           *float64    `json:"rating,omitempty"`
	ReviewCount      *int        `json:"reviewCount,omitempty"`
	PricePerNight    float64     `json:"pricePerNight"`
	TotalPrice       float64     `json:"totalPrice"`
	Badges           string      `json:"badges,omitempty"`
	BedInfo          string      `json:"bedInfo,omitempty"`
	Coordinates      Coordinates `json:"coordinates"`
	HostInfo         string      `json:"hostInfo,omitempty"`
	FreeCancellation bool        `json:"freeCancellation"`
	PriceBreakdown   string      `json:"priceBreakdown,omitempty"`
}
