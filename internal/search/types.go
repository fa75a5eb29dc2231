package search

import (
	"context"

	"github.com/rahul4902/blood-sub001/internal/model"
)

// Suggestion is one search hit. HighlightedName carries HTML produced and
// sanitized by the search API; it is passed through untouched.
type Suggestion struct {
	ID              string         `json:"_id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	HighlightedName string         `json:"highlightedName"`
	Score           float64        `json:"score"`
	Type            model.ItemType `json:"type"`
	Price           float64        `json:"price,omitempty"`
}

// Route is the detail page for s.
func (s Suggestion) Route() string {
	if s.Type == model.ItemTypePackage {
		return "/packages/" + s.Slug
	}
	return "/tests/" + s.Slug
}

type Suggestions struct {
	Tests    []Suggestion `json:"tests"`
	Packages []Suggestion `json:"packages"`
}

func (s Suggestions) Empty() bool {
	return len(s.Tests) == 0 && len(s.Packages) == 0
}

type Query struct {
	Text          string
	LimitTests    int
	LimitPackages int
}

// Backend is the remote search API.
type Backend interface {
	Search(ctx context.Context, q Query) (Suggestions, error)
	MostSearched(ctx context.Context) ([]Suggestion, error)
	IncrementSearch(ctx context.Context, slug string) error
}

type Navigator interface {
	Navigate(path string)
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusResults Status = "results"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// View is what the search box renders.
type View struct {
	Query        string       `json:"query"`
	Status       Status       `json:"status"`
	Results      Suggestions  `json:"results"`
	MostSearched []Suggestion `json:"mostSearched"`
	Error        string       `json:"error,omitempty"`
}
