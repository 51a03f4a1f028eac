package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tkohara/mercari-search-agent/internal/search"
)

// Search-results page markers.
const (
	markerItemContainer = "ItemContainer"
	markerItemName      = "ItemName"
	markerItemPrice     = "ProductThumbItemPrice"
	markerItemThumb     = "StyledProductThumb"

	attrProductID = "data-productid"
	attrOnSale    = "data-is-on-sale"
)

// Listings parses a search-results document into listing summaries in document
// order, truncated to maxItems. A container missing any required field (name,
// price, sale flag, product ID) is skipped; skipping never affects subsequent
// containers.
func Listings(html string, maxItems int) ([]search.ListingSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}
	if maxItems <= 0 {
		return nil, nil
	}

	var listings []search.ListingSummary
	doc.Find(testIDSelector(markerItemContainer)).EachWithBreak(func(_ int, container *goquery.Selection) bool {
		listing, ok := parseContainer(container)
		if ok {
			listings = append(listings, listing)
		}
		return len(listings) < maxItems
	})
	return listings, nil
}

func parseContainer(container *goquery.Selection) (search.ListingSummary, bool) {
	name, ok := fieldText(container, markerItemName)
	if !ok {
		return search.ListingSummary{}, false
	}
	price, ok := fieldText(container, markerItemPrice)
	if !ok {
		return search.ListingSummary{}, false
	}
	id, ok := container.Attr(attrProductID)
	if !ok || id == "" {
		return search.ListingSummary{}, false
	}
	onSale, ok := container.Attr(attrOnSale)
	if !ok {
		return search.ListingSummary{}, false
	}

	return search.ListingSummary{
		ID:        id,
		Name:      name,
		Price:     price,
		IsOnSale:  onSale == "true",
		ImageURL:  thumbnailURL(container),
		DetailURL: search.DetailPageURL(id),
	}, true
}

// thumbnailURL reads the optional listing thumbnail; nil when absent.
func thumbnailURL(container *goquery.Selection) *string {
	img := container.Find(testIDSelector(markerItemThumb) + " img").First()
	src, ok := img.Attr("src")
	if !ok || src == "" {
		return nil
	}
	return &src
}
