package mapper

import (
	"strings"
	"time"

	"finnparser/internal/domain/models"
)

var editedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Advert maps the hydration state of an advert page.
func Advert(raw map[string]any) (models.Advert, error) {
	var err error
	root := newNode(raw, "", &err)

	data := root.object("loaderData").object("item-recommerce")
	item := data.object("itemData")

	var a models.Advert
	a.Title = item.str("title")
	if item.has("price") {
		p := item.float("price")
		a.Price = &p
	}
	a.Disposed = item.boolean("disposed")
	a.Type = item.str("adViewTypeLabel")
	a.Description = item.str("description")
	a.IsWebstore = item.boolean("isWebstore")

	a.Location = location(item.object("location"))
	a.Extras = extras(item)

	meta := item.object("meta")
	a.ID = meta.id("adId")
	if meta.has("ownerId") {
		owner := meta.id("ownerId")
		a.OwnerID = &owner
	}
	a.UserOwner = meta.boolean("userOwner")
	a.HasBeenPublished = meta.boolean("hasBeenPublished")
	a.LastEdited = isoTime(meta, "edited")
	a.SchemaName = meta.str("schemaName")
	a.IsInactive = meta.boolean("isInactive")
	a.IsLegacySchema = meta.boolean("isLegacySchema")
	a.IsOwnAd = meta.boolean("isOwnAd")
	a.ShouldIndex = meta.boolean("shouldIndex")

	seo := data.object("meta")
	a.SEOTitle = seo.str("title")
	a.SEODescription = seo.str("description")
	a.URL = seo.str("canonical")

	a.CategoryPath = categoryPath(item.object("category"))
	if n := len(a.CategoryPath); n > 0 {
		leaf := a.CategoryPath[n-1]
		a.CategoryID, a.CategoryName = leaf.ID, leaf.Name
	}

	a.Images = images(item)
	a.ImageURLs = make([]string, 0, len(a.Images))
	for _, img := range a.Images {
		a.ImageURLs = append(a.ImageURLs, img.URI)
	}

	tx := data.object("transactableData")
	a.SellerPaysShipping = tx.boolean("sellerPaysShipping")
	a.BuyNow = tx.boolean("buyNow")

	if err != nil {
		return models.Advert{}, err
	}
	return a, nil
}

// Location maps an advert "location" object.
func Location(raw map[string]any) (models.Location, error) {
	var err error
	l := location(newNode(raw, "location", &err))
	if err != nil {
		return models.Location{}, err
	}
	return l, nil
}

func location(n node) models.Location {
	l := models.Location{
		PostalCode:  n.str("postalCode"),
		PostalName:  n.str("postalName"),
		CountryCode: n.str("countryCode"),
		CountryName: n.str("countryName"),
	}

	pos := n.object("position")
	l.Latitude = pos.float("lat")
	l.Longitude = pos.float("lng")
	l.Accuracy = int(pos.float("accuracy"))
	l.MapImageURL = pos.str("mapImage")
	return l
}

// CategoryPath walks a leaf category up through its "parent" links and
// returns the chain root first.
func CategoryPath(leaf map[string]any) ([]models.CategoryNode, error) {
	var err error
	path := categoryPath(newNode(leaf, "category", &err))
	if err != nil {
		return nil, err
	}
	return path, nil
}

func categoryPath(n node) []models.CategoryNode {
	var path []models.CategoryNode
	for {
		path = append(path, models.CategoryNode{
			ID:   n.id("id"),
			Name: n.str("value"),
		})
		if n.failed() || !n.has("parent") {
			break
		}
		n = n.object("parent")
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func images(item node) []models.Image {
	arr := item.list("images")
	imgs := make([]models.Image, 0, len(arr))
	list := node{path: item.at("images"), err: item.err}
	for i := range arr {
		n := list.elem(arr, i)
		if n.failed() {
			break
		}
		imgs = append(imgs, models.Image{
			URI:         n.str("uri"),
			Width:       n.optInt("width"),
			Height:      n.optInt("height"),
			Aspect:      n.optFloat("aspectRatio"),
			Description: n.optStr("description"),
		})
	}
	return imgs
}

func extras(item node) []models.Attribute {
	arr := item.list("extras")
	out := make([]models.Attribute, 0, len(arr))
	list := node{path: item.at("extras"), err: item.err}
	for i := range arr {
		n := list.elem(arr, i)
		if n.failed() {
			break
		}
		id := ""
		if n.has("id") {
			id, _ = asNumberString(n.m["id"])
		}
		out = append(out, models.Attribute{
			ID:    id,
			Label: n.optStr("label"),
			Value: text(n.m["value"]),
		})
	}
	return out
}

func isoTime(n node, key string) time.Time {
	s := strings.TrimSpace(n.str(key))
	if n.failed() {
		return time.Time{}
	}
	for _, layout := range editedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	n.fail(n.at(key))
	return time.Time{}
}
