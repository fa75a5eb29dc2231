package model

// ItemType distinguishes individual tests from bundled packages. The same
// catalog id may exist under both types.
type ItemType string

const (
	ItemTypeTest    ItemType = "test"
	ItemTypePackage ItemType = "package"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeTest || t == ItemTypePackage
}

// LineKey is the uniqueness key of a cart line.
type LineKey struct {
	ID   string
	Type ItemType
}

type LineItem struct {
	ID       string   `json:"id"`
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
}

func (li LineItem) Key() LineKey {
	return LineKey{ID: li.ID, Type: li.Type}
}

type CouponType string

const (
	CouponPercentage CouponType = "percentage"
	CouponFixed      CouponType = "fixed"
)

// Coupon is the validated coupon returned by the backend. MaxDiscount only
// applies to percentage coupons; nil means uncapped.
type Coupon struct {
	Code        string     `json:"code"`
	Type        CouponType `json:"type"`
	Value       float64    `json:"value"`
	MaxDiscount *float64   `json:"maxDiscount,omitempty"`
}
