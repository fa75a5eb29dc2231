// Package catalog holds the admin view of lab tests: the list filters and
// page adapter used by the admin data grid, and the create/edit form with
// its explicit request DTO.
package catalog

import (
	"net/url"
	"strconv"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Test is a catalog entry as returned by the backend.
type Test struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	SampleType    string    `json:"sampleType,omitempty"`
	Type          string    `json:"type,omitempty"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discountPrice,omitempty"`
	ReportTime    string    `json:"reportTime,omitempty"`
	Preparation   string    `json:"preparation,omitempty"`
	Parameters    []string  `json:"parameters,omitempty"`
	Status        Status    `json:"status,omitempty"`
	Featured      bool      `json:"featured"`
	Popular       bool      `json:"popular"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Filter is the admin grid query. Zero values are left out of the URL.
type Filter struct {
	Page       int
	Limit      int
	Category   string
	SampleType string
	Status     Status
	Type       string
	Search     string
	Sort       string
	Featured   *bool
	Popular    *bool
}

func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	setIf(v, "category", f.Category)
	setIf(v, "sampleType", f.SampleType)
	setIf(v, "status", string(f.Status))
	setIf(v, "type", f.Type)
	setIf(v, "search", f.Search)
	setIf(v, "sort", f.Sort)
	if f.Featured != nil {
		v.Set("featured", strconv.FormatBool(*f.Featured))
	}
	if f.Popular != nil {
		v.Set("popular", strconv.FormatBool(*f.Popular))
	}
	return v
}

// ParseFilter reads a Filter back from query parameters. Unparseable
// numbers and booleans are ignored.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Category:   q.Get("category"),
		SampleType: q.Get("sampleType"),
		Status:     Status(q.Get("status")),
		Type:       q.Get("type"),
		Search:     q.Get("search"),
		Sort:       q.Get("sort"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	if b, err := strconv.ParseBool(q.Get("featured")); err == nil {
		f.Featured = &b
	}
	if b, err := strconv.ParseBool(q.Get("popular")); err == nil {
		f.Popular = &b
	}
	return f
}

func setIf(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}
