package views

import (
	"net/url"
	"testing"
	"time"

	"feedboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleFeatures() []models.Feature {
	return []models.Feature{
		{ID: 1, Title: "Dark Mode", Description: "Theme toggle", Product: "dof-onboarding", Status: models.StatusNew, Location: "berlin", Reporter: "ana", Votes: 3, CreatedAt: day("2024-01-01")},
		{ID: 2, Title: "Export CSV", Description: "Download board data", Product: "dof-onboarding", Status: models.StatusReview, Location: "lisbon", Reporter: "ben", Votes: 3, CreatedAt: day("2024-02-01")},
		{ID: 3, Title: "Bulk edit", Description: "Edit many items", Product: "dof-portal", Status: models.StatusNew, Location: "berlin", Reporter: "ana", Votes: 7, CreatedAt: day("2024-03-01")},
	}
}

func titles(features []models.Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Title
	}
	return out
}

func TestEmptyInputYieldsEmptyOutput(t *testing.T) {
	out := Apply([]models.Feature{}, Filters{Product: "dof-onboarding"}, SortVotesDesc)
	assert.Empty(t, out)
}

func TestProductFilter(t *testing.T) {
	out := Apply(sampleFeatures(), Filters{Product: "dof-onboarding", Status: FilterAll}, SortDateAsc)
	require.Len(t, out, 2)
	for _, f := range out {
		assert.Equal(t, "dof-onboarding", f.Product)
	}
}

func TestFilterMatchingNothingIsNotAnError(t *testing.T) {
	out := Apply(sampleFeatures(), Filters{Product: "no-such-product"}, SortVotesDesc)
	assert.Empty(t, out)
}

func TestFiltersComposeAsIntersection(t *testing.T) {
	items := sampleFeatures()

	p := Apply(items, Filters{Product: "dof-onboarding"}, SortDateAsc)
	q := Apply(items, Filters{Status: models.StatusNew}, SortDateAsc)
	both := Apply(items, Filters{Product: "dof-onboarding", Status: models.StatusNew}, SortDateAsc)

	inP := make(map[uint]bool)
	for _, f := range p {
		inP[f.ID] = true
	}
	var intersection []uint
	for _, f := range q {
		if inP[f.ID] {
			intersection = append(intersection, f.ID)
		}
	}

	var got []uint
	for _, f := range both {
		got = append(got, f.ID)
	}
	assert.Equal(t, intersection, got)
}

func TestVoteSortIsStableOnTies(t *testing.T) {
	items := sampleFeatures() // IDs 1 and 2 both have 3 votes, ID 3 has 7

	desc := Apply(items, Filters{}, SortVotesDesc)
	assert.Equal(t, []string{"Bulk edit", "Dark Mode", "Export CSV"}, titles(desc))

	asc := Apply(items, Filters{}, SortVotesAsc)
	assert.Equal(t, []string{"Dark Mode", "Export CSV", "Bulk edit"}, titles(asc))
}

func TestDateSort(t *testing.T) {
	items := []models.Feature{
		{ID: 1, Title: "Jan", Votes: 3, CreatedAt: day("2024-01-01")},
		{ID: 2, Title: "Feb", Votes: 3, CreatedAt: day("2024-02-01")},
	}

	out := Apply(items, Filters{}, SortDateDesc)
	assert.Equal(t, []string{"Feb", "Jan"}, titles(out))

	out = Apply(items, Filters{}, SortDateAsc)
	assert.Equal(t, []string{"Jan", "Feb"}, titles(out))
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	items := sampleFeatures()

	for _, term := range []string{"dark", "DARK", "k mo"} {
		out := Apply(items, Filters{SearchTerm: term}, SortVotesDesc)
		require.Len(t, out, 1, "term %q", term)
		assert.Equal(t, "Dark Mode", out[0].Title)
	}

	out := Apply(items, Filters{SearchTerm: "darkx"}, SortVotesDesc)
	assert.Empty(t, out)
}

func TestSearchSpansTextFields(t *testing.T) {
	items := sampleFeatures()

	// Matches description text.
	out := Apply(items, Filters{SearchTerm: "download"}, SortVotesDesc)
	require.Len(t, out, 1)
	assert.Equal(t, "Export CSV", out[0].Title)

	// Matches the product tag.
	out = Apply(items, Filters{SearchTerm: "portal"}, SortVotesDesc)
	require.Len(t, out, 1)
	assert.Equal(t, "Bulk edit", out[0].Title)

	// Matches the location tag.
	out = Apply(items, Filters{SearchTerm: "lisbon"}, SortVotesDesc)
	require.Len(t, out, 1)
	assert.Equal(t, "Export CSV", out[0].Title)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := sampleFeatures()
	before := titles(items)

	_ = Apply(items, Filters{Status: models.StatusNew}, SortVotesAsc)
	assert.Equal(t, before, titles(items))

	first := Apply(items, Filters{Status: models.StatusNew}, SortVotesAsc)
	second := Apply(items, Filters{Status: models.StatusNew}, SortVotesAsc)
	assert.Equal(t, first, second)
}

func TestBugsGoThroughTheSamePipeline(t *testing.T) {
	bugs := []models.Bug{
		{ID: 1, Title: "Crash on save", Product: "dof-mobile", Status: models.StatusNew, Votes: 2, CreatedAt: day("2024-01-05")},
		{ID: 2, Title: "Slow load", Product: "dof-portal", Status: models.StatusProgress, Votes: 9, CreatedAt: day("2024-01-06")},
	}

	out := Apply(bugs, Filters{Product: "dof-portal"}, SortVotesDesc)
	require.Len(t, out, 1)
	assert.Equal(t, "Slow load", out[0].Title)

	// Bugs have no location tag, so a location constraint excludes them all.
	out = Apply(bugs, Filters{Location: "berlin"}, SortVotesDesc)
	assert.Empty(t, out)
}

func TestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("product", "dof-onboarding")
	values.Set("status", "all")
	values.Set("q", "dark")
	values.Set("sort", "date-asc")
	values.Set("flavor", "unknown") // unrecognized keys are ignored

	f, s := FromQuery(values)
	assert.Equal(t, "dof-onboarding", f.Product)
	assert.Equal(t, "all", f.Status)
	assert.Equal(t, "dark", f.SearchTerm)
	assert.Equal(t, SortDateAsc, s)
}

func TestFromQueryDefaultsToVotesDesc(t *testing.T) {
	_, s := FromQuery(url.Values{})
	assert.Equal(t, SortVotesDesc, s)

	_, s = FromQuery(url.Values{"sort": []string{"bogus"}})
	assert.Equal(t, SortVotesDesc, s)
}
