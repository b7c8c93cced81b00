package models

import "fmt"

// Location is the postal and map position of an advert.
type Location struct {
	PostalCode  string  `json:"postal_code"`
	PostalName  string  `json:"postal_name"`
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Accuracy    int     `json:"accuracy"`
	MapImageURL string  `json:"map_image_url,omitempty"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s, %s (%g, %g)", l.PostalCode, l.PostalName, l.Latitude, l.Longitude)
}
