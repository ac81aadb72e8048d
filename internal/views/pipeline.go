// Package views computes the filtered, sorted board view from the full
// fetched record set. It is pure: no I/O, inputs are never mutated, and the
// same inputs always produce the same output. Callers own the record list
// and its refetch lifecycle.
package views

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

// Card is the common face of a feature or bug row as the pipeline sees it.
type Card interface {
	CardTitle() string
	CardDescription() string
	CardProduct() string
	CardStatus() string
	CardLocation() string
	CardReporter() string
	CardExperimentOwner() string
	CardVotes() int
	CardCreatedAt() time.Time
}

// FilterAll (or an empty string) means a filter places no constraint.
const FilterAll = "all"

// Filters holds the active filter selection. Every non-empty, non-"all"
// field is an exact-match constraint; SearchTerm is a case-insensitive
// substring match over title, description, product and location.
type Filters struct {
	Product         string
	Status          string
	Location        string
	Reporter        string
	ExperimentOwner string
	SearchTerm      string
}

type Sort string

const (
	SortVotesDesc Sort = "votes-desc"
	SortVotesAsc  Sort = "votes-asc"
	SortDateDesc  Sort = "date-desc"
	SortDateAsc   Sort = "date-asc"
)

// FromQuery builds the filter/sort selection from request query parameters.
// Unrecognized keys are ignored.
func FromQuery(values url.Values) (Filters, Sort) {
	f := Filters{
		Product:         values.Get("product"),
		Status:          values.Get("status"),
		Location:        values.Get("location"),
		Reporter:        values.Get("reporter"),
		ExperimentOwner: values.Get("experiment_owner"),
		SearchTerm:      values.Get("q"),
	}

	s := SortVotesDesc
	switch Sort(values.Get("sort")) {
	case SortVotesAsc:
		s = SortVotesAsc
	case SortDateDesc:
		s = SortDateDesc
	case SortDateAsc:
		s = SortDateAsc
	}
	return f, s
}

func active(value string) bool {
	return value != "" && value != FilterAll
}

func (f Filters) match(c Card) bool {
	if active(f.Product) && c.CardProduct() != f.Product {
		return false
	}
	if active(f.Status) && c.CardStatus() != f.Status {
		return false
	}
	if active(f.Location) && c.CardLocation() != f.Location {
		return false
	}
	if active(f.Reporter) && c.CardReporter() != f.Reporter {
		return false
	}
	if active(f.ExperimentOwner) && c.CardExperimentOwner() != f.ExperimentOwner {
		return false
	}
	if f.SearchTerm != "" && !matchSearch(c, f.SearchTerm) {
		return false
	}
	return true
}

// matchSearch tests a case-insensitive substring against the card's text
// fields, OR across fields.
func matchSearch(c Card, term string) bool {
	needle := strings.ToLower(term)
	for _, hay := range []string{c.CardTitle(), c.CardDescription(), c.CardProduct(), c.CardLocation()} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// Apply returns the items passing every active filter, ordered by the given
// sort. The input slice is left untouched; ties keep their input order.
func Apply[T Card](items []T, f Filters, s Sort) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if f.match(item) {
			out = append(out, item)
		}
	}

	var less func(a, b T) bool
	switch s {
	case SortVotesAsc:
		less = func(a, b T) bool { return a.CardVotes() < b.CardVotes() }
	case SortDateDesc:
		less = func(a, b T) bool { return a.CardCreatedAt().After(b.CardCreatedAt()) }
	case SortDateAsc:
		less = func(a, b T) bool { return a.CardCreatedAt().Before(b.CardCreatedAt()) }
	default: // SortVotesDesc
		less = func(a, b T) bool { return a.CardVotes() > b.CardVotes() }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
