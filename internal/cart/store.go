package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rahul4902/blood-sub001/internal/checkout"
	"github.com/rahul4902/blood-sub001/internal/model"
	"github.com/rahul4902/blood-sub001/internal/pricing"
	"github.com/rahul4902/blood-sub001/internal/storage"
)

const (
	msgCouponFailed   = "Failed to apply coupon"
	msgCouponRequired = "Please enter a coupon code"
)

// CouponRequest is the body sent to the coupon validation endpoint.
type CouponRequest struct {
	Code      string           `json:"code"`
	CartTotal float64          `json:"cartTotal"`
	Items     []model.LineItem `json:"items"`
}

type CouponValidator interface {
	ValidateCoupon(ctx context.Context, req CouponRequest) (model.Coupon, error)
}

// userMessager is implemented by remote errors that carry a message meant for
// display.
type userMessager interface {
	UserMessage() string
}

type Options struct {
	Storage        storage.Store
	Coupons        CouponValidator
	Logger         *zap.Logger
	PersistTimeout time.Duration
	Now            func() time.Time
}

// Store owns the cart state. Every mutation goes through Reduce; after load
// completes each transition is written to storage before subscribers run.
type Store struct {
	mu          sync.Mutex
	state       State
	loaded      bool
	loadedCh    chan struct{}
	subscribers map[int]func(State)
	nextSub     int

	storage        storage.Store
	coupons        CouponValidator
	log            *zap.Logger
	persistTimeout time.Duration
	now            func() time.Time
}

func NewStore(opts Options) *Store {
	if opts.Storage == nil {
		opts.Storage = storage.NewMemory()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = 2 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		state:          InitialState(),
		loadedCh:       make(chan struct{}),
		subscribers:    map[int]func(State){},
		storage:        opts.Storage,
		coupons:        opts.Coupons,
		log:            opts.Logger.Named("cart"),
		persistTimeout: opts.PersistTimeout,
		now:            opts.Now,
	}
}

// Load reads the persisted snapshot once. Missing, unreadable or
// unsupported snapshots leave the store empty. Later calls are no-ops.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return
	}

	blob, err := s.storage.Get(ctx, SnapshotKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		s.log.Warn("read cart snapshot", zap.Error(err))
	default:
		restored, derr := DecodeSnapshot(blob)
		if derr != nil {
			s.log.Warn("discard cart snapshot", zap.Error(derr))
		} else {
			s.state = Hydrate{State: restored}.apply(s.state)
		}
	}

	s.loaded = true
	close(s.loadedCh)
	snap, subs := s.state.clone(), s.subscriberList()
	s.mu.Unlock()

	s.log.Info("cart loaded", zap.Int("items", len(snap.Items)))
	notify(subs, snap)
}

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// WaitLoaded blocks until Load has finished or ctx is done.
func (s *Store) WaitLoaded(ctx context.Context) error {
	select {
	case <-s.loadedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn to receive the state after every transition. The
// returned func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Dispatch applies a and returns the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	if s.loaded {
		s.persistLocked()
	}
	snap, subs := s.state.clone(), s.subscriberList()
	s.mu.Unlock()

	notify(subs, snap)
	return snap
}

// persistLocked writes the snapshot while s.mu is held so writes land in
// transition order.
func (s *Store) persistLocked() {
	blob, err := EncodeSnapshot(s.state, s.now())
	if err != nil {
		s.log.Error("encode cart snapshot", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()
	if err := s.storage.Set(ctx, SnapshotKey, blob); err != nil {
		s.log.Warn("write cart snapshot", zap.Error(err))
	}
}

func (s *Store) subscriberList() []func(State) {
	out := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}

func (s *Store) AddToCart(item model.LineItem) { s.Dispatch(AddItem{Item: item}) }

func (s *Store) RemoveFromCart(id string, typ model.ItemType) {
	s.Dispatch(RemoveItem{ID: id, Type: typ})
}

func (s *Store) UpdateQuantity(id string, typ model.ItemType, quantity int) {
	s.Dispatch(UpdateQuantity{ID: id, Type: typ, Quantity: quantity})
}

// ApplyCoupon validates code against the backend with the current subtotal
// and items. On failure the previous coupon, if any, stays applied.
func (s *Store) ApplyCoupon(ctx context.Context, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		s.Dispatch(CouponRejected{Message: msgCouponRequired})
		return false
	}
	if s.coupons == nil {
		s.Dispatch(CouponRejected{Message: msgCouponFailed})
		return false
	}

	s.mu.Lock()
	req := CouponRequest{
		Code:      code,
		CartTotal: pricing.Subtotal(s.state.Items).InexactFloat64(),
		Items:     append([]model.LineItem{}, s.state.Items...),
	}
	s.mu.Unlock()

	coupon, err := s.coupons.ValidateCoupon(ctx, req)
	if err != nil {
		msg := msgCouponFailed
		var um userMessager
		if errors.As(err, &um) && um.UserMessage() != "" {
			msg = um.UserMessage()
		}
		s.log.Info("coupon rejected", zap.String("code", code), zap.Error(err))
		s.Dispatch(CouponRejected{Message: msg})
		return false
	}

	s.Dispatch(CouponApplied{Coupon: coupon})
	return true
}

func (s *Store) RemoveCoupon() { s.Dispatch(RemoveCoupon{}) }

func (s *Store) SetSelectedAddress(a model.Address) { s.Dispatch(SetSelectedAddress{Address: a}) }
func (s *Store) ClearSelectedAddress() { s.Dispatch(ClearSelectedAddress{}) }
func (s *Store) SetPatientInfo(p model.PatientInfo) { s.Dispatch(SetPatientInfo{Patient: p}) }
func (s *Store) ClearPatientInfo() { s.Dispatch(ClearPatientInfo{}) }
func (s *Store) SetSelectedTimeSlot(t model.TimeSlot) {
	s.Dispatch(SetSelectedTimeSlot{Slot: t})
}
func (s *Store) ClearSelectedTimeSlot() { s.Dispatch(ClearSelectedTimeSlot{}) }
func (s *Store) SetPaymentMode(m model.PaymentMode) { s.Dispatch(SetPaymentMode{Mode: m}) }
func (s *Store) ClearPaymentMode() { s.Dispatch(ClearPaymentMode{}) }
func (s *Store) SetCheckoutStep(step int) { s.Dispatch(SetCheckoutStep{Step: step}) }
func (s *Store) ClearCheckout() { s.Dispatch(ClearCheckout{}) }
func (s *Store) SetQuickCheckout(enabled bool) { s.Dispatch(SetQuickCheckout{Enabled: enabled}) }
func (s *Store) ClearCart() { s.Dispatch(ClearCart{}) }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) Breakdown() pricing.Breakdown {
	st := s.Snapshot()
	return pricing.Calculate(st.Items, st.Coupon)
}

func (s *Store) Subtotal() decimal.Decimal { return s.Breakdown().Subtotal }
func (s *Store) Discount() decimal.Decimal { return s.Breakdown().Discount }
func (s *Store) Tax() decimal.Decimal { return s.Breakdown().Tax }
func (s *Store) Total() decimal.Decimal { return s.Breakdown().Total }

// IsItemInCart matches on id alone, so a test and a package sharing an id
// both report true.
func (s *Store) IsItemInCart(id string) bool {
	for _, it := range s.Snapshot().Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) IsLineInCart(id string, typ model.ItemType) bool {
	return s.Snapshot().indexOf(model.LineKey{ID: id, Type: typ}) >= 0
}

func (s *Store) ItemQuantity(id string, typ model.ItemType) int {
	st := s.Snapshot()
	if i := st.indexOf(model.LineKey{ID: id, Type: typ}); i >= 0 {
		return st.Items[i].Quantity
	}
	return 0
}

func (s *Store) IsCheckoutValid() bool { return checkout.IsValid(s.Snapshot().Checkout) }

func (s *Store) CheckoutProgress() int { return checkout.Progress(s.Snapshot().Checkout) }
