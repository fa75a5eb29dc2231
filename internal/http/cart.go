package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rahul4902/blood-sub001/internal/cart"
	"github.com/rahul4902/blood-sub001/internal/checkout"
	"github.com/rahul4902/blood-sub001/internal/model"
	"github.com/rahul4902/blood-sub001/internal/pricing"
)

type cartView struct {
	State            cart.State        `json:"state"`
	Totals           pricing.Breakdown `json:"totals"`
	ItemCount        int               `json:"itemCount"`
	CheckoutValid    bool              `json:"checkoutValid"`
	CheckoutProgress int               `json:"checkoutProgress"`
	Missing          []string          `json:"missing"`
	NextStep         int               `json:"nextStep"`
}

func newCartView(st cart.State) cartView {
	return cartView{
		State:            st,
		Totals:           pricing.Calculate(st.Items, st.Coupon).Round(2),
		ItemCount:        len(st.Items),
		CheckoutValid:    checkout.IsValid(st.Checkout),
		CheckoutProgress: checkout.Progress(st.Checkout),
		Missing:          checkout.Missing(st.Checkout),
		NextStep:         checkout.FirstIncompleteStep(st.Checkout),
	}
}

func (h *Handler) writeCart(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, newCartView(h.cart.Snapshot()))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart()
	h.writeCart(w)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item model.LineItem
	if !decode(w, r, &item) {
		return
	}
	if strings.TrimSpace(item.ID) == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	if !item.Type.Valid() {
		writeError(w, r, http.StatusBadRequest, "type must be test or package")
		return
	}
	if item.Price < 0 {
		writeError(w, r, http.StatusBadRequest, "price cannot be negative")
		return
	}
	h.cart.AddToCart(item)
	h.writeCart(w)
}

func (h *Handler) ItemStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp := map[string]any{"id": id}

	if typ := model.ItemType(r.URL.Query().Get("type")); typ != "" {
		if !typ.Valid() {
			writeError(w, r, http.StatusBadRequest, "type must be test or package")
			return
		}
		resp["type"] = typ
		resp["inCart"] = h.cart.IsLineInCart(id, typ)
		resp["quantity"] = h.cart.ItemQuantity(id, typ)
	} else {
		resp["inCart"] = h.cart.IsItemInCart(id)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	typ, ok := lineType(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		writeError(w, r, http.StatusBadRequest, "quantity is required")
		return
	}
	h.cart.UpdateQuantity(chi.URLParam(r, "id"), typ, *req.Quantity)
	h.writeCart(w)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	typ, ok := lineType(w, r)
	if !ok {
		return
	}
	h.cart.RemoveFromCart(chi.URLParam(r, "id"), typ)
	h.writeCart(w)
}

// ApplyCoupon answers 200 either way; a rejected code shows up as
// couponError in the state, the same as in the UI.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}
	ok := h.cart.ApplyCoupon(r.Context(), req.Code)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": ok,
		"cart":    newCartView(h.cart.Snapshot()),
	})
}

func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	h.cart.RemoveCoupon()
	h.writeCart(w)
}

func (h *Handler) SetQuickCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.cart.SetQuickCheckout(req.Enabled)
	h.writeCart(w)
}

func lineType(w http.ResponseWriter, r *http.Request) (model.ItemType, bool) {
	typ := model.ItemType(chi.URLParam(r, "type"))
	if !typ.Valid() {
		writeError(w, r, http.StatusBadRequest, "type must be test or package")
		return "", false
	}
	return typ, true
}
