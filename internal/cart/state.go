package cart

import "github.com/rahul4902/blood-sub001/internal/model"

// State is the whole cart: line items, the applied coupon and the nested
// checkout. It is treated as an immutable value; actions return a new State.
type State struct {
	Items           []model.LineItem    `json:"items"`
	Coupon          *model.Coupon       `json:"coupon"`
	CouponError     string              `json:"couponError"`
	IsQuickCheckout bool                `json:"isQuickCheckout"`
	Checkout        model.CheckoutState `json:"checkout"`
}

func InitialState() State {
	return State{
		Items:    []model.LineItem{},
		Checkout: model.InitialCheckout(),
	}
}

func (s State) indexOf(key model.LineKey) int {
	for i, it := range s.Items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	out := s
	out.Items = append([]model.LineItem{}, s.Items...)
	return out
}

// normalize repairs a state read from storage: duplicate keys and
// non-positive quantities are dropped and the step is clamped.
func (s State) normalize() State {
	out := s
	out.Items = make([]model.LineItem, 0, len(s.Items))
	seen := make(map[model.LineKey]bool, len(s.Items))
	for _, it := range s.Items {
		if it.Quantity <= 0 || !it.Type.Valid() || seen[it.Key()] {
			continue
		}
		seen[it.Key()] = true
		out.Items = append(out.Items, it)
	}
	out.Checkout.CurrentStep = clampStep(s.Checkout.CurrentStep)
	return out
}

func clampStep(step int) int {
	if step < model.FirstCheckoutStep {
		return model.FirstCheckoutStep
	}
	if step > model.LastCheckoutStep {
		return model.LastCheckoutStep
	}
	return step
}
