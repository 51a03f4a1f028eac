// Package scrape parses rendered marketplace HTML into listing data.
//
// The marketplace tags its markup with stable data-testid markers; all lookups
// anchor on those so that layout changes stay isolated here.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// testIDSelector builds an attribute selector for a data-testid marker.
func testIDSelector(id string) string {
	return "[data-testid='" + id + "']"
}

// fieldText returns the trimmed text of the first element matching the marker
// under scope. The second return value reports whether the anchor element was
// found at all.
func fieldText(scope *goquery.Selection, testID string) (string, bool) {
	el := scope.Find(testIDSelector(testID)).First()
	if el.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}
