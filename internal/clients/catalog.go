package clients

import (
	"context"
	"net/http"

	"github.com/rahul4902/blood-sub001/internal/catalog"
)

// CatalogClient is the admin view of /tests. It needs a Client with a
// TokenSource.
type CatalogClient struct{ c *Client }

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

func (cc *CatalogClient) ListTests(ctx context.Context, f catalog.Filter) (catalog.Page, error) {
	var out catalog.ListResponse
	if err := cc.c.DoJSON(ctx, http.MethodGet, "/tests", f.Values(), nil, nil, &out); err != nil {
		return catalog.Page{}, err
	}
	return catalog.AdaptPage(out, f), nil
}

func (cc *CatalogClient) GetTestBySlug(ctx context.Context, slug string) (catalog.Test, error) {
	seg, err := segment(slug)
	if err != nil {
		return catalog.Test{}, err
	}
	return cc.one(ctx, http.MethodGet, "/tests/slug/"+seg, nil)
}

func (cc *CatalogClient) CreateTest(ctx context.Context, in catalog.TestInput) (catalog.Test, error) {
	return cc.one(ctx, http.MethodPost, "/tests", in)
}

func (cc *CatalogClient) UpdateTest(ctx context.Context, id string, in catalog.TestInput) (catalog.Test, error) {
	seg, err := segment(id)
	if err != nil {
		return catalog.Test{}, err
	}
	return cc.one(ctx, http.MethodPut, "/tests/"+seg, in)
}

func (cc *CatalogClient) DeleteTest(ctx context.Context, id string) error {
	seg, err := segment(id)
	if err != nil {
		return err
	}
	return cc.c.DoJSON(ctx, http.MethodDelete, "/tests/"+seg, nil, nil, nil, nil)
}

func (cc *CatalogClient) SetTestStatus(ctx context.Context, slug string, status catalog.Status) (catalog.Test, error) {
	body := struct {
		Status catalog.Status `json:"status"`
	}{Status: status}
	seg, err := segment(slug)
	if err != nil {
		return catalog.Test{}, err
	}
	return cc.one(ctx, http.MethodPatch, "/tests/slug/"+seg+"/status", body)
}

// one decodes {"data": {...}} or a bare test object.
func (cc *CatalogClient) one(ctx context.Context, method, path string, in any) (catalog.Test, error) {
	var out struct {
		catalog.Test
		Data *catalog.Test `json:"data"`
	}
	if err := cc.c.DoJSON(ctx, method, path, nil, nil, in, &out); err != nil {
		return catalog.Test{}, err
	}
	if out.Data != nil {
		return *out.Data, nil
	}
	return out.Test, nil
}
