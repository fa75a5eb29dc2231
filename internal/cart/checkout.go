package cart

import "github.com/rahul4902/blood-sub001/internal/model"

// Each checkout action touches exactly one field so a step can be redone
// without losing its siblings.

type SetSelectedAddress struct{ Address model.Address }

func (a SetSelectedAddress) apply(s State) State {
	v := a.Address
	s.Checkout.SelectedAddress = &v
	return s
}

type ClearSelectedAddress struct{}

func (ClearSelectedAddress) apply(s State) State {
	s.Checkout.SelectedAddress = nil
	return s
}

type SetPatientInfo struct{ Patient model.PatientInfo }

func (a SetPatientInfo) apply(s State) State {
	v := a.Patient
	s.Checkout.PatientInfo = &v
	return s
}

type ClearPatientInfo struct{}

func (ClearPatientInfo) apply(s State) State {
	s.Checkout.PatientInfo = nil
	return s
}

type SetSelectedTimeSlot struct{ Slot model.TimeSlot }

func (a SetSelectedTimeSlot) apply(s State) State {
	v := a.Slot
	s.Checkout.SelectedTimeSlot = &v
	return s
}

type ClearSelectedTimeSlot struct{}

func (ClearSelectedTimeSlot) apply(s State) State {
	s.Checkout.SelectedTimeSlot = nil
	return s
}

type SetPaymentMode struct{ Mode model.PaymentMode }

func (a SetPaymentMode) apply(s State) State {
	v := a.Mode
	s.Checkout.PaymentMode = &v
	return s
}

type ClearPaymentMode struct{}

func (ClearPaymentMode) apply(s State) State {
	s.Checkout.PaymentMode = nil
	return s
}

// SetCheckoutStep moves the advisory step pointer, clamped to 1..5.
type SetCheckoutStep struct{ Step int }

func (a SetCheckoutStep) apply(s State) State {
	s.Checkout.CurrentStep = clampStep(a.Step)
	return s
}

// ClearCheckout resets the checkout only; items and coupon are kept.
type ClearCheckout struct{}

func (ClearCheckout) apply(s State) State {
	s.Checkout = model.InitialCheckout()
	return s
}

type SetQuickCheckout struct{ Enabled bool }

func (a SetQuickCheckout) apply(s State) State {
	s.IsQuickCheckout = a.Enabled
	return s
}
