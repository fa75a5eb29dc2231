package clients

import (
	"context"
	"net/http"

	"github.com/rahul4902/blood-sub001/internal/orders"
)

// OrderClient needs a Client with a TokenSource.
type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

// SubmitOrder accepts either {"order": {...}} or the order object itself.
func (oc *OrderClient) SubmitOrder(ctx context.Context, req orders.Request) (orders.Confirmation, error) {
	var out struct {
		orders.Confirmation
		Order *orders.Confirmation `json:"order"`
	}
	if err := oc.c.DoJSON(ctx, http.MethodPost, "/api/orders", nil, nil, req, &out); err != nil {
		return orders.Confirmation{}, err
	}
	if out.Order != nil {
		return *out.Order, nil
	}
	return out.Confirmation, nil
}
