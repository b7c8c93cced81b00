package models

import (
	"fmt"
	"time"
)

type CategoryNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Image is one entry of the advert gallery.
type Image struct {
	URI         string  `json:"uri"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	Aspect      float64 `json:"aspect,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Attribute is an extra key/value pair shown on the advert page
// (condition, brand, size and so on).
type Attribute struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Advert is the full detail record of a single listing.
type Advert struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       *float64 `json:"price,omitempty"`
	Disposed    bool     `json:"disposed"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	IsWebstore  bool     `json:"is_webstore"`

	Location Location    `json:"location"`
	Extras   []Attribute `json:"extras"`

	OwnerID          *string   `json:"owner_id,omitempty"`
	UserOwner        bool      `json:"user_owner"`
	HasBeenPublished bool      `json:"has_been_published"`
	LastEdited       time.Time `json:"last_edited"`
	SchemaName       string    `json:"schema_name"`
	IsInactive       bool      `json:"is_inactive"`
	IsLegacySchema   bool      `json:"is_legacy_schema"`
	IsOwnAd          bool      `json:"is_own_ad"`
	ShouldIndex      bool      `json:"should_index"`

	CategoryID   string         `json:"category_id"`
	CategoryName string         `json:"category_name"`
	CategoryPath []CategoryNode `json:"category_path"`

	Images    []Image  `json:"images"`
	ImageURLs []string `json:"image_urls"`

	SEOTitle       string `json:"seo_title"`
	SEODescription string `json:"seo_description"`
	URL            string `json:"url"`

	SellerPaysShipping bool `json:"seller_pays_shipping"`
	BuyNow             bool `json:"buy_now"`
}

func (a Advert) String() string {
	price := "-"
	if a.Price != nil {
		price = fmt.Sprintf("%g", *a.Price)
	}
	return fmt.Sprintf("%s (%s) - %s [%s]", a.Title, price, a.Location.PostalName, a.ID)
}
