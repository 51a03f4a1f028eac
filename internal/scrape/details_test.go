package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tkohara/mercari-search-agent/internal/search"
)

const detailPage = `<html><body>
<div data-testid="Spec">
  <div data-testid="ItemDetailExternalUpdated">2 days ago</div>
  <div data-testid="ItemDetailsPosted">5 days ago</div>
  <div data-testid="ItemDetailsCondition">Like new</div>
  <div data-testid="ItemDetailsBrand">Coach</div>
  <div data-testid="ItemDetailsDescription">
    Barely used leather bag.
  </div>
</div>
<span data-testid="ItemDetailsCategory">
  <a data-testid="Category_0">Women</a>
  <a data-testid="Category_1">Bags</a>
  <a data-testid="Category_2">Shoulder Bags</a>
</span>
<div data-testid="ReviewStarsWrapper" data-stars="4.5"></div>
<span data-testid="SellerRatingCount">128</span>
</body></html>`

func TestDetailsFullPage(t *testing.T) {
	t.Parallel()

	attrs := Details(detailPage)

	require.Equal(t, "2 days ago", attrs[search.AttrUpdatedAt])
	require.Equal(t, "5 days ago", attrs[search.AttrPostedAt])
	require.Equal(t, "Like new", attrs[search.AttrCondition])
	require.Equal(t, "Coach", attrs[search.AttrBrand])
	require.Equal(t, "Barely used leather bag.", attrs[search.AttrDescription])
	require.Equal(t, "Women, Bags, Shoulder Bags", attrs[search.AttrCategories])
	require.Equal(t, "4.5", attrs[search.AttrSellerRatingStars])
	require.Equal(t, "128 reviews", attrs[search.AttrSellerReviewCount])
}

func TestDetailsEmptyPage(t *testing.T) {
	t.Parallel()

	attrs := Details("<html><body><p>nothing here</p></body></html>")
	require.Empty(t, attrs)
}

func TestDetailsPartialSpec(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<div data-testid="Spec">
	  <div data-testid="ItemDetailsBrand">Nike</div>
	</div>
	</body></html>`

	attrs := Details(html)
	require.Equal(t, search.DetailAttributes{search.AttrBrand: "Nike"}, attrs)
}

func TestDetailsSkipsEmptyValues(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<div data-testid="Spec">
	  <div data-testid="ItemDetailsBrand">   </div>
	  <div data-testid="ItemDetailsCondition">Good</div>
	</div>
	<div data-testid="ReviewStarsWrapper" data-stars="  "></div>
	</body></html>`

	attrs := Details(html)
	require.Equal(t, search.DetailAttributes{search.AttrCondition: "Good"}, attrs)
}

func TestDetailsCategoryWrapperWithoutEntries(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<span data-testid="ItemDetailsCategory"></span>
	</body></html>`

	attrs := Details(html)
	require.NotContains(t, attrs, search.AttrCategories)
}

func TestDetailsSellerRatingOnly(t *testing.T) {
	t.Parallel()

	html := `<html><body>
	<div data-testid="ReviewStarsWrapper" data-stars="3.8"></div>
	<span data-testid="SellerRatingCount">17</span>
	</body></html>`

	attrs := Details(html)
	require.Equal(t, search.DetailAttributes{
		search.AttrSellerRatingStars: "3.8",
		search.AttrSellerReviewCount: "17 reviews",
	}, attrs)
}
