package model

const (
	FirstCheckoutStep = 1
	LastCheckoutStep  = 5
)

type Address struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type PatientInfo struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Relation string `json:"relation,omitempty"`
}

// TimeSlot is a home sample collection window.
type TimeSlot struct {
	ID    string `json:"id,omitempty"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type PaymentMode string

const (
	PaymentCash   PaymentMode = "cod"
	PaymentOnline PaymentMode = "online"
)

func (p PaymentMode) Valid() bool {
	return p == PaymentCash || p == PaymentOnline
}

// CheckoutState is the in-progress checkout nested inside the cart state.
// Every data field is nil until the corresponding step sets it. CurrentStep
// is advisory only.
type CheckoutState struct {
	SelectedAddress  *Address     `json:"selectedAddress"`
	PatientInfo      *PatientInfo `json:"patientInfo"`
	SelectedTimeSlot *TimeSlot    `json:"selectedTimeSlot"`
	PaymentMode      *PaymentMode `json:"paymentMode"`
	CurrentStep      int          `json:"currentStep"`
}

func InitialCheckout() CheckoutState {
	return CheckoutState{CurrentStep: FirstCheckoutStep}
}
