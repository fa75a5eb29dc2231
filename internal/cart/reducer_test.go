package cart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rahul4902/blood-sub001/internal/model"
)

func cbc() model.LineItem {
	return model.LineItem{ID: "t1", Type: model.ItemTypeTest, Name: "CBC", Price: 100}
}

func TestAddItem_InsertsWithQuantityOne(t *testing.T) {
	item := cbc()
	item.Quantity = 7

	s := Reduce(InitialState(), AddItem{Item: item})

	require.Len(t, s.Items, 1)
	require.Equal(t, 1, s.Items[0].Quantity)
}

func TestAddItem_DuplicateIsNoOp(t *testing.T) {
	s := Reduce(InitialState(), AddItem{Item: cbc()})
	changed := cbc()
	changed.Price = 999
	changed.Name = "other"

	s = Reduce(s, AddItem{Item: changed})

	require.Len(t, s.Items, 1)
	require.Equal(t, 1, s.Items[0].Quantity)
	require.Equal(t, "CBC", s.Items[0].Name)
	require.Equal(t, 100.0, s.Items[0].Price)
}

func TestAddItem_SameIDDifferentTypeIsSeparateLine(t *testing.T) {
	pkg := cbc()
	pkg.Type = model.ItemTypePackage

	s := Reduce(InitialState(), AddItem{Item: cbc()})
	s = Reduce(s, AddItem{Item: pkg})

	require.Len(t, s.Items, 2)
}

func TestUpdateQuantity(t *testing.T) {
	base := Reduce(InitialState(), AddItem{Item: cbc()})

	tests := []struct {
		name     string
		quantity int
		wantLen  int
		wantQty  int
	}{
		{name: "set directly", quantity: 5, wantLen: 1, wantQty: 5},
		{name: "no upper bound", quantity: 1000, wantLen: 1, wantQty: 1000},
		{name: "zero removes", quantity: 0, wantLen: 0},
		{name: "negative removes", quantity: -3, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(base, UpdateQuantity{ID: "t1", Type: model.ItemTypeTest, Quantity: tt.quantity})
			require.Len(t, s.Items, tt.wantLen)
			if tt.wantLen > 0 {
				require.Equal(t, tt.wantQty, s.Items[0].Quantity)
			}
		})
	}
}

func TestUpdateQuantity_UnknownLineIsNoOp(t *testing.T) {
	base := Reduce(InitialState(), AddItem{Item: cbc()})
	s := Reduce(base, UpdateQuantity{ID: "t1", Type: model.ItemTypePackage, Quantity: 4})
	require.Equal(t, base, s)
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	base := Reduce(InitialState(), AddItem{Item: cbc()})
	s := Reduce(base, RemoveItem{ID: "missing", Type: model.ItemTypeTest})
	require.Equal(t, base, s)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	base := Reduce(InitialState(), AddItem{Item: cbc()})
	_ = Reduce(base, UpdateQuantity{ID: "t1", Type: model.ItemTypeTest, Quantity: 9})
	_ = Reduce(base, RemoveItem{ID: "t1", Type: model.ItemTypeTest})
	require.Equal(t, 1, base.Items[0].Quantity)
	require.Len(t, base.Items, 1)
}

func TestCouponRejected_KeepsPreviousCoupon(t *testing.T) {
	prev := model.Coupon{Code: "SAVE10", Type: model.CouponPercentage, Value: 10}
	s := Reduce(InitialState(), CouponApplied{Coupon: prev})
	s = Reduce(s, CouponRejected{Message: "Coupon expired"})

	require.NotNil(t, s.Coupon)
	require.Equal(t, "SAVE10", s.Coupon.Code)
	require.Equal(t, "Coupon expired", s.CouponError)

	s = Reduce(s, CouponApplied{Coupon: model.Coupon{Code: "FLAT50", Type: model.CouponFixed, Value: 50}})
	require.Equal(t, "FLAT50", s.Coupon.Code)
	require.Empty(t, s.CouponError)

	s = Reduce(s, RemoveCoupon{})
	require.Nil(t, s.Coupon)
	require.Empty(t, s.CouponError)
}

func TestCheckoutFieldsAreIndependent(t *testing.T) {
	mode := model.PaymentCash
	s := InitialState()
	s = Reduce(s, SetSelectedAddress{Address: model.Address{ID: "a1"}})
	s = Reduce(s, SetPatientInfo{Patient: model.PatientInfo{Name: "Asha"}})
	s = Reduce(s, SetSelectedTimeSlot{Slot: model.TimeSlot{ID: "s1"}})
	s = Reduce(s, SetPaymentMode{Mode: mode})

	s = Reduce(s, ClearPatientInfo{})

	require.NotNil(t, s.Checkout.SelectedAddress)
	require.Nil(t, s.Checkout.PatientInfo)
	require.NotNil(t, s.Checkout.SelectedTimeSlot)
	require.NotNil(t, s.Checkout.PaymentMode)

	s = Reduce(s, ClearSelectedAddress{})
	s = Reduce(s, ClearSelectedTimeSlot{})
	s = Reduce(s, ClearPaymentMode{})
	require.Equal(t, model.InitialCheckout(), s.Checkout)
}

func TestSetCheckoutStep_Clamps(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{in: -1, want: 1},
		{in: 0, want: 1},
		{in: 3, want: 3},
		{in: 5, want: 5},
		{in: 9, want: 5},
	}
	for _, tt := range tests {
		s := Reduce(InitialState(), SetCheckoutStep{Step: tt.in})
		require.Equal(t, tt.want, s.Checkout.CurrentStep, "step %d", tt.in)
	}
}

func TestClearCheckout_KeepsItemsAndCoupon(t *testing.T) {
	s := Reduce(InitialState(), AddItem{Item: cbc()})
	s = Reduce(s, CouponApplied{Coupon: model.Coupon{Code: "SAVE10", Type: model.CouponPercentage, Value: 10}})
	s = Reduce(s, SetSelectedAddress{Address: model.Address{ID: "a1"}})
	s = Reduce(s, SetCheckoutStep{Step: 4})

	s = Reduce(s, ClearCheckout{})

	require.Len(t, s.Items, 1)
	require.NotNil(t, s.Coupon)
	require.Equal(t, model.InitialCheckout(), s.Checkout)
}

func TestClearCart_ResetsEverything(t *testing.T) {
	s := Reduce(InitialState(), AddItem{Item: cbc()})
	s = Reduce(s, CouponRejected{Message: "nope"})
	s = Reduce(s, SetQuickCheckout{Enabled: true})
	s = Reduce(s, SetSelectedAddress{Address: model.Address{ID: "a1"}})

	s = Reduce(s, ClearCart{})

	require.Equal(t, InitialState(), s)
}

func TestReduce_LineKeysStayUnique(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c"}
	types := []model.ItemType{model.ItemTypeTest, model.ItemTypePackage}

	s := InitialState()
	for i := 0; i < 2000; i++ {
		id := ids[r.Intn(len(ids))]
		typ := types[r.Intn(len(types))]
		var a Action
		switch r.Intn(3) {
		case 0:
			a = AddItem{Item: model.LineItem{ID: id, Type: typ, Price: 10}}
		case 1:
			a = RemoveItem{ID: id, Type: typ}
		default:
			a = UpdateQuantity{ID: id, Type: typ, Quantity: r.Intn(5) - 1}
		}
		s = Reduce(s, a)

		seen := map[model.LineKey]bool{}
		for _, it := range s.Items {
			require.False(t, seen[it.Key()], "duplicate line %v", it.Key())
			require.Positive(t, it.Quantity)
			seen[it.Key()] = true
		}
	}
}
