package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultDelay         = 300 * time.Millisecond
	DefaultLimitTests    = 5
	DefaultLimitPackages = 3

	msgSearchFailed = "Failed to fetch suggestions"
)

type Options struct {
	Backend          Backend
	Navigator        Navigator
	Logger           *zap.Logger
	Delay            time.Duration
	LimitTests       int
	LimitPackages    int
	IncrementTimeout time.Duration
}

// Suggester drives one search box. Keystrokes are debounced; each fired
// lookup gets a sequence number and its own context, and starting a new
// lookup cancels the previous one. Responses whose sequence is no longer
// current are dropped.
type Suggester struct {
	mu       sync.Mutex
	view     View
	seq      uint64
	inflight context.CancelFunc
	mounted  bool
	closed   bool
	subs     map[int]func(View)
	nextSub  int

	debounce *Debouncer
	life     context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup

	backend          Backend
	nav              Navigator
	log              *zap.Logger
	limitTests       int
	limitPackages    int
	incrementTimeout time.Duration
}

func NewSuggester(opts Options) *Suggester {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.LimitTests <= 0 {
		opts.LimitTests = DefaultLimitTests
	}
	if opts.LimitPackages <= 0 {
		opts.LimitPackages = DefaultLimitPackages
	}
	if opts.IncrementTimeout <= 0 {
		opts.IncrementTimeout = 5 * time.Second
	}
	life, stop := context.WithCancel(context.Background())
	return &Suggester{
		view:             View{Status: StatusIdle},
		subs:             map[int]func(View){},
		debounce:         NewDebouncer(opts.Delay),
		life:             life,
		stop:             stop,
		backend:          opts.Backend,
		nav:              opts.Navigator,
		log:              opts.Logger.Named("search"),
		limitTests:       opts.LimitTests,
		limitPackages:    opts.LimitPackages,
		incrementTimeout: opts.IncrementTimeout,
	}
}

// Mount fetches the most-searched list. Only the first call does any work.
func (s *Suggester) Mount(ctx context.Context) error {
	s.mu.Lock()
	if s.mounted || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mounted = true
	s.mu.Unlock()

	list, err := s.backend.MostSearched(ctx)
	if err != nil {
		s.log.Warn("fetch most searched", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.view.MostSearched = list
	s.mu.Unlock()
	s.publish()
	return nil
}

// Type records the query immediately and schedules the lookup. A non-empty
// query shows as loading from the first keystroke; an empty one cancels
// pending work and returns to idle.
func (s *Suggester) Type(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.view.Query = query
	if strings.TrimSpace(query) == "" {
		s.resetLocked()
		s.mu.Unlock()
		s.publish()
		return
	}
	s.view.Status = StatusLoading
	s.view.Error = ""
	s.debounce.Trigger(func() { s.lookup(query) })
	s.mu.Unlock()
	s.publish()
}

func (s *Suggester) Clear() {
	s.Type("")
}

// Select records the pick, clears the box and navigates to the detail
// route. The search-count increment runs in the background and its failure
// is only logged.
func (s *Suggester) Select(sug Suggestion) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.view.Query = ""
	s.resetLocked()
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.incrementTimeout)
		defer cancel()
		if err := s.backend.IncrementSearch(ctx, sug.Slug); err != nil {
			s.log.Warn("increment search count", zap.String("slug", sug.Slug), zap.Error(err))
		}
	}()

	if s.nav != nil {
		s.nav.Navigate(sug.Route())
	}
	s.publish()
}

// Close tears down the debounce timer and any in-flight lookup, then waits
// for background work to finish.
func (s *Suggester) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.debounce.Stop()
	s.resetLocked()
	s.stop()
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Suggester) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Suggester) Subscribe(fn func(View)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// resetLocked cancels the pending and in-flight lookups and invalidates any
// response still on its way.
func (s *Suggester) resetLocked() {
	s.debounce.Cancel()
	s.seq++
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}
	s.view.Status = StatusIdle
	s.view.Results = Suggestions{}
	s.view.Error = ""
}

func (s *Suggester) lookup(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	if s.inflight != nil {
		s.inflight()
	}
	ctx, cancel := context.WithCancel(s.life)
	s.inflight = cancel
	s.view.Status = StatusLoading
	s.view.Error = ""
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()
	defer cancel()
	s.publish()

	res, err := s.backend.Search(ctx, Query{
		Text:          query,
		LimitTests:    s.limitTests,
		LimitPackages: s.limitPackages,
	})

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.log.Debug("drop stale suggestions", zap.String("query", query))
		return
	}
	s.inflight = nil
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		s.mu.Unlock()
		return
	case err != nil:
		s.log.Warn("search suggestions", zap.String("query", query), zap.Error(err))
		s.view.Status = StatusError
		s.view.Error = msgSearchFailed
		s.view.Results = Suggestions{}
	case res.Empty():
		s.view.Status = StatusEmpty
		s.view.Results = Suggestions{}
	default:
		s.view.Status = StatusResults
		s.view.Results = res
	}
	s.mu.Unlock()
	s.publish()
}

func (s *Suggester) publish() {
	s.mu.Lock()
	v := s.view
	subs := make([]func(View), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(v)
	}
}
