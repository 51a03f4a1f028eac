package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tkohara/mercari-search-agent/internal/search"
)

// Detail-page markers.
const (
	markerSpec            = "Spec"
	markerDetailUpdated   = "ItemDetailExternalUpdated"
	markerDetailPosted    = "ItemDetailsPosted"
	markerDetailCondition = "ItemDetailsCondition"
	markerDetailBrand     = "ItemDetailsBrand"
	markerDetailDesc      = "ItemDetailsDescription"
	markerDetailCategory  = "ItemDetailsCategory"
	markerReviewStars     = "ReviewStarsWrapper"
	markerReviewCount     = "SellerRatingCount"

	attrStars = "data-stars"

	reviewCountSuffix = " reviews"
)

// specFields maps spec-table markers to attribute keys. Every field is
// best-effort; a missing anchor is skipped, never an error.
var specFields = map[string]string{
	markerDetailUpdated:   search.AttrUpdatedAt,
	markerDetailPosted:    search.AttrPostedAt,
	markerDetailCondition: search.AttrCondition,
	markerDetailBrand:     search.AttrBrand,
	markerDetailDesc:      search.AttrDescription,
}

// Details parses a listing's detail page into a sparse attribute map. An
// unrecognized layout yields an empty map, which is a valid outcome. Keys are
// only set to non-empty values.
func Details(html string) search.DetailAttributes {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return search.DetailAttributes{}
	}

	attrs := search.DetailAttributes{}

	spec := doc.Find(testIDSelector(markerSpec)).First()
	for marker, key := range specFields {
		if text, ok := fieldText(spec, marker); ok && text != "" {
			attrs[key] = text
		}
	}

	extractCategories(doc, attrs)
	extractSellerRating(doc, attrs)
	return attrs
}

// extractCategories flattens the ordered category path into one comma-joined
// string.
func extractCategories(doc *goquery.Document, attrs search.DetailAttributes) {
	wrapper := doc.Find("span" + testIDSelector(markerDetailCategory)).First()
	if wrapper.Length() == 0 {
		return
	}
	var categories []string
	wrapper.Find("[data-testid^='Category_']").Each(func(_ int, category *goquery.Selection) {
		categories = append(categories, category.Text())
	})
	if len(categories) == 0 {
		return
	}
	attrs[search.AttrCategories] = strings.Join(categories, ", ")
}

func extractSellerRating(doc *goquery.Document, attrs search.DetailAttributes) {
	stars := doc.Find(testIDSelector(markerReviewStars)).First()
	if value, ok := stars.Attr(attrStars); ok {
		if value = strings.TrimSpace(value); value != "" {
			attrs[search.AttrSellerRatingStars] = value
		}
	}

	if count, ok := fieldText(doc.Selection, markerReviewCount); ok && count != "" {
		attrs[search.AttrSellerReviewCount] = count + reviewCountSuffix
	}
}
