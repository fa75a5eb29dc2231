package httpapi

import (
	"net/http"

	"github.com/rahul4902/blood-sub001/internal/model"
)

func (h *Handler) ClearCheckout(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCheckout()
	h.writeCart(w)
}

func (h *Handler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var a model.Address
	if !decode(w, r, &a) {
		return
	}
	h.cart.SetSelectedAddress(a)
	h.writeCart(w)
}

func (h *Handler) ClearAddress(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearSelectedAddress()
	h.writeCart(w)
}

func (h *Handler) SetPatient(w http.ResponseWriter, r *http.Request) {
	var p model.PatientInfo
	if !decode(w, r, &p) {
		return
	}
	h.cart.SetPatientInfo(p)
	h.writeCart(w)
}

func (h *Handler) ClearPatient(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearPatientInfo()
	h.writeCart(w)
}

func (h *Handler) SetTimeSlot(w http.ResponseWriter, r *http.Request) {
	var t model.TimeSlot
	if !decode(w, r, &t) {
		return
	}
	h.cart.SetSelectedTimeSlot(t)
	h.writeCart(w)
}

func (h *Handler) ClearTimeSlot(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearSelectedTimeSlot()
	h.writeCart(w)
}

func (h *Handler) SetPaymentMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode model.PaymentMode `json:"mode"`
	}
	if !decode(w, r, &req) {
		return
	}
	if !req.Mode.Valid() {
		writeError(w, r, http.StatusBadRequest, "mode must be cod or online")
		return
	}
	h.cart.SetPaymentMode(req.Mode)
	h.writeCart(w)
}

func (h *Handler) ClearPaymentMode(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearPaymentMode()
	h.writeCart(w)
}

// SetStep stores the step as given; the cart clamps it into range.
func (h *Handler) SetStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Step int `json:"step"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.cart.SetCheckoutStep(req.Step)
	h.writeCart(w)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	res := h.orders.PlaceOrder(r.Context())
	status := http.StatusCreated
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}
