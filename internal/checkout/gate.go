// Package checkout answers whether an in-progress checkout can be placed.
//
// The gate is advisory: nothing here stops a caller from moving
// CurrentStep anywhere it likes. Readiness is derived only from which data
// fields are populated.
package checkout

import "github.com/rahul4902/blood-sub001/internal/model"

// Field names reported by Missing, in step order.
const (
	FieldAddress     = "address"
	FieldPatient     = "patientInfo"
	FieldTimeSlot    = "timeSlot"
	FieldPaymentMode = "paymentMode"
)

const requiredFields = 4

func IsValid(s model.CheckoutState) bool {
	return s.SelectedAddress != nil &&
		s.PatientInfo != nil &&
		s.SelectedTimeSlot != nil &&
		s.PaymentMode != nil
}

// Progress returns the completed share of the checkout as 0, 25, 50, 75 or 100.
func Progress(s model.CheckoutState) int {
	return completed(s) * 100 / requiredFields
}

// Missing lists the unset fields in step order.
func Missing(s model.CheckoutState) []string {
	var out []string
	if s.SelectedAddress == nil {
		out = append(out, FieldAddress)
	}
	if s.PatientInfo == nil {
		out = append(out, FieldPatient)
	}
	if s.SelectedTimeSlot == nil {
		out = append(out, FieldTimeSlot)
	}
	if s.PaymentMode == nil {
		out = append(out, FieldPaymentMode)
	}
	return out
}

// FirstIncompleteStep suggests where the UI should resume: the step of the
// first unset field, or the review step once everything is set.
func FirstIncompleteStep(s model.CheckoutState) int {
	switch {
	case s.SelectedAddress == nil:
		return 1
	case s.PatientInfo == nil:
		return 2
	case s.SelectedTimeSlot == nil:
		return 3
	case s.PaymentMode == nil:
		return 4
	default:
		return model.LastCheckoutStep
	}
}

func completed(s model.CheckoutState) int {
	return requiredFields - len(Missing(s))
}
