package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rahul4902/blood-sub001/internal/cart"
	"github.com/rahul4902/blood-sub001/internal/model"
)

type CouponClient struct{ c *Client }

func NewCouponClient(c *Client) *CouponClient { return &CouponClient{c: c} }

func (cc *CouponClient) ValidateCoupon(ctx context.Context, req cart.CouponRequest) (model.Coupon, error) {
	var out struct {
		Coupon *model.Coupon `json:"coupon"`
	}
	if err := cc.c.DoJSON(ctx, http.MethodPost, "/api/coupons/validate", nil, nil, req, &out); err != nil {
		return model.Coupon{}, err
	}
	if out.Coupon == nil {
		return model.Coupon{}, fmt.Errorf("%s: validate coupon: response has no coupon", cc.c.Name)
	}
	return *out.Coupon, nil
}
