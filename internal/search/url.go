package search

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	searchBaseURL = "https://www.mercari.com/search/"
	itemPageURL   = "https://www.mercari.com/us/item/"
	itemPageRef   = "/?ref=search_results"
)

// Origin filter codes used by the marketplace search endpoint.
const (
	countrySourceUSA   = 1
	countrySourceJapan = 2
)

// shippingPayerSeller selects listings where the seller pays shipping.
const shippingPayerSeller = 2

// BuildSearchURL renders the canonical marketplace search URL for the filter.
// Parameter order is a hard contract with the marketplace endpoint and with
// snapshot tests; the query string always starts with "?" even when no
// parameter is present. The function is total and never fails.
func BuildSearchURL(f Filter) string {
	var params []string

	if f.SearchKeyword != "" {
		params = append(params, "keyword="+encodeKeyword(f.SearchKeyword))
	}

	switch f.ItemOrigin {
	case OriginUSA:
		params = append(params, "countrySources="+strconv.Itoa(countrySourceUSA))
	case OriginJapan:
		params = append(params, "countrySources="+strconv.Itoa(countrySourceJapan))
	}

	if code, ok := f.Condition.Code(); ok {
		params = append(params, "itemConditions="+strconv.Itoa(code))
	}

	if f.PriceMin != nil {
		params = append(params, "minPrice="+strconv.Itoa(*f.PriceMin))
	}
	if f.PriceMax != nil {
		params = append(params, "maxPrice="+strconv.Itoa(*f.PriceMax))
	}

	if f.FreeShipping {
		params = append(params, "shippingPayerIds="+strconv.Itoa(shippingPayerSeller))
	}

	return searchBaseURL + "?" + strings.Join(params, "&")
}

// DetailPageURL templates a listing ID into the marketplace item-page URL,
// tagging the referral source. ID and detail URL are derived together and must
// stay consistent.
func DetailPageURL(id string) string {
	return itemPageURL + id + itemPageRef
}

// encodeKeyword percent-encodes the keyword for a query value. Spaces encode
// as %20, not +.
func encodeKeyword(keyword string) string {
	return strings.ReplaceAll(url.QueryEscape(keyword), "+", "%20")
}
