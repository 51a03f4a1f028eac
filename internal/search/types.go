// Package search defines core types shared across the pipeline stages.
package search

import (
	"encoding/json"
	"strings"
)

// Origin restricts results to listings shipped from a given country.
type Origin string

// Supported item origins. Anything unrecognized collapses to OriginAny.
const (
	OriginAny   Origin = "Any"
	OriginUSA   Origin = "USA"
	OriginJapan Origin = "Japan"
)

// ParseOrigin maps free-form origin text to a supported Origin.
func ParseOrigin(s string) Origin {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "usa":
		return OriginUSA
	case "japan":
		return OriginJapan
	default:
		return OriginAny
	}
}

// UnmarshalJSON accepts any string and normalizes it; it never fails on
// unrecognized values.
func (o *Origin) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*o = OriginAny
		return nil
	}
	*o = ParseOrigin(raw)
	return nil
}

// Condition is the seller-declared item condition.
type Condition string

// Supported conditions, matching the marketplace's numeric filter codes.
const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionPoor    Condition = "poor"
)

var conditionCodes = map[Condition]int{
	ConditionNew:     1,
	ConditionLikeNew: 2,
	ConditionGood:    3,
	ConditionFair:    4,
	ConditionPoor:    5,
}

// ParseCondition maps free-form condition text to a supported Condition.
// Unrecognized values map to the empty Condition, meaning "absent".
func ParseCondition(s string) Condition {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	c := Condition(normalized)
	if _, ok := conditionCodes[c]; !ok {
		return ""
	}
	return c
}

// Code returns the marketplace filter code for the condition. The second
// return value is false when the condition is absent or unrecognized.
func (c Condition) Code() (int, bool) {
	code, ok := conditionCodes[c]
	return code, ok
}

// UnmarshalJSON treats null and unrecognized strings as an absent condition;
// it never fails.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*c = ""
		return nil
	}
	*c = ParseCondition(raw)
	return nil
}

// Filter is the structured search intent extracted from a conversation.
// PriceMin and PriceMax are independent bounds; neither is validated against
// the other.
type Filter struct {
	SearchKeyword string    `json:"search_keyword"`
	ItemOrigin    Origin    `json:"item_origin"`
	Condition     Condition `json:"condition,omitempty"`
	PriceMin      *int      `json:"price_min,omitempty"`
	PriceMax      *int      `json:"price_max,omitempty"`
	FreeShipping  bool      `json:"free_shipping"`
}

// Recognized detail-page attribute keys. Absence of a key means the attribute
// was not found on the page; keys are never set to empty placeholders.
const (
	AttrBrand             = "brand"
	AttrCondition         = "condition"
	AttrDescription       = "description"
	AttrPostedAt          = "posted_at"
	AttrUpdatedAt         = "updated_at"
	AttrCategories        = "categories"
	AttrSellerRatingStars = "seller_rating_stars"
	AttrSellerReviewCount = "seller_review_count"
)

// externalAttributeNames maps internal attribute keys to the JSON keys the
// downstream client expects. The external names predate this service and must
// not change.
var externalAttributeNames = map[string]string{
	AttrBrand:             "product_brand",
	AttrCondition:         "production_condition",
	AttrDescription:       "product_description",
	AttrPostedAt:          "product_posted_at",
	AttrUpdatedAt:         "product_update_at",
	AttrCategories:        "product_categories",
	AttrSellerRatingStars: "seller_rating_stars",
	AttrSellerReviewCount: "seller_reviews_count",
}

// DetailAttributes is a sparse attribute map parsed from a listing's detail
// page. It is immutable once returned by the detail extractor.
type DetailAttributes map[string]string

// ListingSummary is one item from a search-results page, optionally enriched
// with detail-page attributes.
type ListingSummary struct {
	ID         string
	Name       string
	Price      string
	IsOnSale   bool
	ImageURL   *string
	DetailURL  string
	Attributes DetailAttributes
}

// WithDetails returns a copy of the summary with the detail attributes merged
// in. Detail keys take precedence; existing summary fields are never removed.
func (l ListingSummary) WithDetails(details DetailAttributes) ListingSummary {
	if len(details) == 0 {
		return l
	}
	merged := make(DetailAttributes, len(l.Attributes)+len(details))
	for k, v := range l.Attributes {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	l.Attributes = merged
	return l
}

// MarshalJSON flattens the summary and its attributes into a single object
// using the client-facing key names.
func (l ListingSummary) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
		"product_id":         l.ID,
		"product_name":       l.Name,
		"product_price":      l.Price,
		"product_is_on_sale": l.IsOnSale,
		"product_image_url":  l.ImageURL,
		"product_url":        l.DetailURL,
	}
	for key, value := range l.Attributes {
		external, ok := externalAttributeNames[key]
		if !ok {
			continue
		}
		obj[external] = value
	}
	return json.Marshal(obj)
}

// Message roles accepted from the client.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation driving the search.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
