package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Form is the admin create/edit form. Zero values mean "not filled in".
type Form struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	SampleType    string   `json:"sampleType"`
	Type          string   `json:"type"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discountPrice"`
	ReportTime    string   `json:"reportTime"`
	Preparation   string   `json:"preparation"`
	Parameters    []string `json:"parameters"`
	Status        Status   `json:"status"`
	Featured      *bool    `json:"featured"`
	Popular       *bool    `json:"popular"`
}

// TestInput is the wire body for POST and PUT /tests. Only fields that were
// filled in are sent.
type TestInput struct {
	Name          *string  `json:"name,omitempty"`
	Slug          *string  `json:"slug,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty"`
	SampleType    *string  `json:"sampleType,omitempty"`
	Type          *string  `json:"type,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	ReportTime    *string  `json:"reportTime,omitempty"`
	Preparation   *string  `json:"preparation,omitempty"`
	Parameters    []string `json:"parameters,omitempty"`
	Status        *Status  `json:"status,omitempty"`
	Featured      *bool    `json:"featured,omitempty"`
	Popular       *bool    `json:"popular,omitempty"`
}

// ValidationErrors maps a form field to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v[k]))
	}
	return "invalid test form: " + strings.Join(parts, "; ")
}

// Validate checks the form for create. For partial updates use
// ValidatePartial.
func (f Form) Validate() ValidationErrors {
	errs := f.ValidatePartial()
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(f.Category) == "" {
		errs["category"] = "Category is required"
	}
	if strings.TrimSpace(f.SampleType) == "" {
		errs["sampleType"] = "Sample type is required"
	}
	if f.Price <= 0 {
		errs["price"] = "Price must be greater than 0"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidatePartial checks only the fields that are filled in.
func (f Form) ValidatePartial() ValidationErrors {
	errs := ValidationErrors{}
	if f.Slug != "" && !slugPattern.MatchString(f.Slug) {
		errs["slug"] = "Slug may contain lowercase letters, digits and hyphens"
	}
	if f.Price < 0 {
		errs["price"] = "Price cannot be negative"
	}
	if f.DiscountPrice < 0 {
		errs["discountPrice"] = "Discount price cannot be negative"
	} else if f.DiscountPrice > 0 && f.Price > 0 && f.DiscountPrice >= f.Price {
		errs["discountPrice"] = "Discount price must be lower than price"
	}
	if f.Status != "" && !f.Status.Valid() {
		errs["status"] = "Status must be active or inactive"
	}
	if f.Type != "" && f.Type != "test" && f.Type != "package" {
		errs["type"] = "Type must be test or package"
	}
	return errs
}

// Input builds the wire body. Blank strings, zero amounts and empty lists
// are omitted.
func (f Form) Input() TestInput {
	in := TestInput{
		Name:        str(f.Name),
		Slug:        str(f.Slug),
		Description: str(f.Description),
		Category:    str(f.Category),
		SampleType:  str(f.SampleType),
		Type:        str(f.Type),
		ReportTime:  str(f.ReportTime),
		Preparation: str(f.Preparation),
		Featured:    f.Featured,
		Popular:     f.Popular,
	}
	if f.Price > 0 {
		p := f.Price
		in.Price = &p
	}
	if f.DiscountPrice > 0 {
		d := f.DiscountPrice
		in.DiscountPrice = &d
	}
	for _, p := range f.Parameters {
		if p = strings.TrimSpace(p); p != "" {
			in.Parameters = append(in.Parameters, p)
		}
	}
	if f.Status != "" {
		s := f.Status
		in.Status = &s
	}
	return in
}

func str(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
