// Package orders turns a completed checkout into a booking on the backend.
package orders

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rahul4902/blood-sub001/internal/cart"
	"github.com/rahul4902/blood-sub001/internal/checkout"
	"github.com/rahul4902/blood-sub001/internal/events"
	"github.com/rahul4902/blood-sub001/internal/middleware"
	"github.com/rahul4902/blood-sub001/internal/model"
	"github.com/rahul4902/blood-sub001/internal/pricing"
)

const (
	msgEmptyCart          = "Your cart is empty"
	msgIncompleteCheckout = "Please complete all checkout steps"
	msgOrderFailed        = "Failed to place order"
)

// Cart is the part of the cart store used to place an order.
type Cart interface {
	Snapshot() cart.State
	ClearCart()
}

type Submitter interface {
	SubmitOrder(ctx context.Context, req Request) (Confirmation, error)
}

type EventPublisher interface {
	PublishCartCheckedOut(ctx context.Context, meta events.EventMeta, payload events.CartCheckedOutPayload) error
}

type Confirmation struct {
	ID          string `json:"_id"`
	OrderNumber string `json:"orderNumber,omitempty"`
	Status      string `json:"status,omitempty"`
}

type Result struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Missing []string      `json:"missing,omitempty"`
	Order   *Confirmation `json:"order,omitempty"`
}

type Options struct {
	Cart      Cart
	Submitter Submitter
	Publisher EventPublisher
	Logger    *zap.Logger
	CartID    string
	UserID    func() string
	Now       func() time.Time
}

type Service struct {
	cart   Cart
	submit Submitter
	pub    EventPublisher
	log    *zap.Logger
	cartID string
	userID func() string
	now    func() time.Time
}

func NewService(opts Options) *Service {
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.UserID == nil {
		opts.UserID = func() string { return "" }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		cart:   opts.Cart,
		submit: opts.Submitter,
		pub:    opts.Publisher,
		log:    opts.Logger.Named("orders"),
		cartID: opts.CartID,
		userID: opts.UserID,
		now:    opts.Now,
	}
}

// PlaceOrder submits the current cart and checkout. On success the cart is
// cleared and a CartCheckedOut event is published; a publish failure does
// not fail the order.
func (s *Service) PlaceOrder(ctx context.Context) Result {
	st := s.cart.Snapshot()
	if len(st.Items) == 0 {
		return Result{Error: msgEmptyCart}
	}
	if !checkout.IsValid(st.Checkout) {
		return Result{Error: msgIncompleteCheckout, Missing: checkout.Missing(st.Checkout)}
	}

	req := BuildRequest(st)
	conf, err := s.submit.SubmitOrder(ctx, req)
	if err != nil {
		s.log.Warn("submit order", zap.Error(err))
		return Result{Error: messageOr(err, msgOrderFailed)}
	}

	s.cart.ClearCart()
	s.log.Info("order placed", zap.String("orderId", conf.ID), zap.Float64("total", req.Total))

	payload := s.checkedOutPayload(st, req, conf)
	meta := events.EventMeta{
		CorrelationID: middleware.GetCorrelationID(ctx),
		PartitionKey:  s.cartID,
	}
	if err := s.pub.PublishCartCheckedOut(ctx, meta, payload); err != nil {
		s.log.Warn("publish CartCheckedOut", zap.String("orderId", conf.ID), zap.Error(err))
	}

	return Result{Success: true, Order: &conf}
}

func (s *Service) checkedOutPayload(st cart.State, req Request, conf Confirmation) events.CartCheckedOutPayload {
	p := events.CartCheckedOutPayload{
		CartID:      s.cartID,
		OrderID:     conf.ID,
		UserID:      s.userID(),
		CouponCode:  req.CouponCode,
		Subtotal:    req.Subtotal,
		Discount:    req.Discount,
		Tax:         req.Tax,
		TotalAmount: req.Total,
		PaymentMode: string(req.PaymentMode),
		Timestamp:   s.now().UTC(),
	}
	for _, it := range st.Items {
		p.Items = append(p.Items, events.CartCheckedOutItem{
			ID:       it.ID,
			Type:     string(it.Type),
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return p
}

// BuildRequest maps the cart state to the order wire body. Amounts are
// rounded to paise.
func BuildRequest(st cart.State) Request {
	b := pricing.Calculate(st.Items, st.Coupon).Round(2)
	co := st.Checkout

	req := Request{
		Items:           make([]RequestItem, 0, len(st.Items)),
		AddressID:       co.SelectedAddress.ID,
		Address:         *co.SelectedAddress,
		Patient:         *co.PatientInfo,
		TimeSlot:        *co.SelectedTimeSlot,
		PaymentMode:     *co.PaymentMode,
		Subtotal:        b.Subtotal.InexactFloat64(),
		Discount:        b.Discount.InexactFloat64(),
		Tax:             b.Tax.InexactFloat64(),
		Total:           b.Total.InexactFloat64(),
		IsQuickCheckout: st.IsQuickCheckout,
	}
	if st.Coupon != nil {
		req.CouponCode = st.Coupon.Code
	}
	for _, it := range st.Items {
		req.Items = append(req.Items, RequestItem{ID: it.ID, Type: it.Type, Quantity: it.Quantity, Price: it.Price})
	}
	return req
}

type Request struct {
	Items           []RequestItem     `json:"items"`
	CouponCode      string            `json:"couponCode,omitempty"`
	AddressID       string            `json:"addressId,omitempty"`
	Address         model.Address     `json:"address"`
	Patient         model.PatientInfo `json:"patient"`
	TimeSlot        model.TimeSlot    `json:"timeSlot"`
	PaymentMode     model.PaymentMode `json:"paymentMode"`
	Subtotal        float64           `json:"subtotal"`
	Discount        float64           `json:"discount"`
	Tax             float64           `json:"tax"`
	Total           float64           `json:"total"`
	IsQuickCheckout bool              `json:"isQuickCheckout,omitempty"`
}

type RequestItem struct {
	ID       string         `json:"id"`
	Type     model.ItemType `json:"type"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
}

type userMessager interface {
	UserMessage() string
}

func messageOr(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return fallback
}
