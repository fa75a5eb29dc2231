package cart

import "github.com/rahul4902/blood-sub001/internal/model"

type CouponApplied struct {
	Coupon model.Coupon
}

func (a CouponApplied) apply(s State) State {
	c := a.Coupon
	s.Coupon = &c
	s.CouponError = ""
	return s
}

// CouponRejected records the error and keeps whatever coupon was applied
// before.
type CouponRejected struct {
	Message string
}

func (a CouponRejected) apply(s State) State {
	s.CouponError = a.Message
	return s
}

type RemoveCoupon struct{}

func (RemoveCoupon) apply(s State) State {
	s.Coupon = nil
	s.CouponError = ""
	return s
}
