package catalog

// ListResponse is the raw body of GET /tests.
type ListResponse struct {
	Data       []Test `json:"data"`
	Pagination struct {
		Total      int `json:"total"`
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

// Page is the shape the admin grid consumes.
type Page struct {
	Rows       []Test `json:"rows"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// AdaptPage converts a list response, filling in anything the backend left
// out from the request filter.
func AdaptPage(resp ListResponse, f Filter) Page {
	p := Page{
		Rows:       resp.Data,
		Total:      resp.Pagination.Total,
		Page:       resp.Pagination.Page,
		Limit:      resp.Pagination.Limit,
		TotalPages: resp.Pagination.TotalPages,
	}
	if p.Rows == nil {
		p.Rows = []Test{}
	}
	if p.Page == 0 {
		p.Page = max(f.Page, 1)
	}
	if p.Limit == 0 {
		p.Limit = f.Limit
	}
	if p.Total == 0 {
		p.Total = len(p.Rows)
	}
	if p.TotalPages == 0 && p.Limit > 0 {
		p.TotalPages = (p.Total + p.Limit - 1) / p.Limit
	}
	return p
}
