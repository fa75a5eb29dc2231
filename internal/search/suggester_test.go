package search

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rahul4902/blood-sub001/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeBackend struct {
	mu         sync.Mutex
	queries    []string
	canceled   []string
	increments []string
	gates      map[string]chan struct{}
	ignoreCtx  bool
	err        error
	empty      bool
	most       []Suggestion
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{gates: map[string]chan struct{}{}}
}

// hold makes lookups for q block until the returned func is called.
func (f *fakeBackend) hold(q string) func() {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gates[q] = ch
	f.mu.Unlock()
	return func() { close(ch) }
}

func (f *fakeBackend) Search(ctx context.Context, q Query) (Suggestions, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q.Text)
	gate := f.gates[q.Text]
	err, empty, ignore := f.err, f.empty, f.ignoreCtx
	f.mu.Unlock()

	if gate != nil {
		if ignore {
			<-gate
		} else {
			select {
			case <-gate:
			case <-ctx.Done():
				f.mu.Lock()
				f.canceled = append(f.canceled, q.Text)
				f.mu.Unlock()
				return Suggestions{}, ctx.Err()
			}
		}
	}
	if err != nil {
		return Suggestions{}, err
	}
	if empty {
		return Suggestions{}, nil
	}
	return Suggestions{Tests: []Suggestion{{Name: q.Text, Slug: q.Text, Type: model.ItemTypeTest}}}, nil
}

func (f *fakeBackend) MostSearched(context.Context) ([]Suggestion, error) {
	return f.most, nil
}

func (f *fakeBackend) IncrementSearch(_ context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments = append(f.increments, slug)
	return errors.New("counter offline")
}

func (f *fakeBackend) snapshot() (queries, canceled, increments []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.queries...), append([]string{}, f.canceled...), append([]string{}, f.increments...)
}

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func newSuggester(t *testing.T, b Backend, nav Navigator) *Suggester {
	t.Helper()
	s := NewSuggester(Options{Backend: b, Navigator: nav, Delay: 30 * time.Millisecond})
	t.Cleanup(s.Close)
	return s
}

func waitStatus(t *testing.T, s *Suggester, want Status) View {
	t.Helper()
	require.Eventually(t, func() bool { return s.View().Status == want }, time.Second, 5*time.Millisecond)
	return s.View()
}

// waitQueried waits until the backend has received a lookup for q.
func waitQueried(t *testing.T, b *fakeBackend, q string) {
	t.Helper()
	require.Eventually(t, func() bool {
		queries, _, _ := b.snapshot()
		return slices.Contains(queries, q)
	}, time.Second, 5*time.Millisecond)
}

func TestSuggester_LoadingDuringDebounce(t *testing.T) {
	b := newFakeBackend()
	b.err = errors.New("502")
	s := NewSuggester(Options{Backend: b, Delay: 100 * time.Millisecond})
	t.Cleanup(s.Close)

	s.Type("boom")
	waitStatus(t, s, StatusError)

	b.mu.Lock()
	b.err = nil
	b.mu.Unlock()

	s.Type("cbc")
	v := s.View()
	require.Equal(t, StatusLoading, v.Status)
	require.Empty(t, v.Error)

	queries, _, _ := b.snapshot()
	require.Equal(t, []string{"boom"}, queries)

	waitStatus(t, s, StatusResults)
}

func TestSuggester_RapidTypingFiresOnce(t *testing.T) {
	b := newFakeBackend()
	s := newSuggester(t, b, nil)

	s.Type("a")
	s.Type("ab")
	s.Type("abc")
	require.Equal(t, "abc", s.View().Query)

	v := waitStatus(t, s, StatusResults)
	require.Equal(t, "abc", v.Results.Tests[0].Name)

	queries, _, _ := b.snapshot()
	require.Equal(t, []string{"abc"}, queries)
}

func TestSuggester_NewLookupCancelsPrevious(t *testing.T) {
	b := newFakeBackend()
	releaseSlow := b.hold("slow")
	defer releaseSlow()
	s := newSuggester(t, b, nil)

	s.Type("slow")
	waitQueried(t, b, "slow")

	s.Type("fast")
	v := waitStatus(t, s, StatusResults)
	require.Equal(t, "fast", v.Results.Tests[0].Name)

	require.Eventually(t, func() bool {
		_, canceled, _ := b.snapshot()
		return len(canceled) == 1 && canceled[0] == "slow"
	}, time.Second, 5*time.Millisecond)
}

func TestSuggester_LateResponseIsDropped(t *testing.T) {
	b := newFakeBackend()
	b.ignoreCtx = true
	releaseSlow := b.hold("slow")
	s := newSuggester(t, b, nil)

	s.Type("slow")
	waitQueried(t, b, "slow")
	s.Type("fast")
	waitStatus(t, s, StatusResults)

	releaseSlow()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, "fast", s.View().Results.Tests[0].Name)
}

func TestSuggester_EmptyAndError(t *testing.T) {
	b := newFakeBackend()
	b.empty = true
	b.most = []Suggestion{{Name: "CBC", Slug: "cbc"}}
	s := newSuggester(t, b, nil)
	require.NoError(t, s.Mount(context.Background()))

	s.Type("zzz")
	v := waitStatus(t, s, StatusEmpty)
	require.Len(t, v.MostSearched, 1)

	b.mu.Lock()
	b.empty = false
	b.err = errors.New("502")
	b.mu.Unlock()

	s.Type("boom")
	v = waitStatus(t, s, StatusError)
	require.Equal(t, msgSearchFailed, v.Error)
}

func TestSuggester_ClearCancelsPending(t *testing.T) {
	b := newFakeBackend()
	s := newSuggester(t, b, nil)

	s.Type("lipid")
	s.Clear()
	time.Sleep(60 * time.Millisecond)

	queries, _, _ := b.snapshot()
	require.Empty(t, queries)
	require.Equal(t, StatusIdle, s.View().Status)
	require.Empty(t, s.View().Query)
}

func TestSuggester_SelectNavigatesAndIncrements(t *testing.T) {
	b := newFakeBackend()
	nav := &navRecorder{}
	s := newSuggester(t, b, nav)

	s.Type("thy")
	waitStatus(t, s, StatusResults)

	s.Select(Suggestion{Slug: "thyroid-profile", Type: model.ItemTypePackage})

	v := s.View()
	require.Empty(t, v.Query)
	require.Equal(t, StatusIdle, v.Status)
	require.Equal(t, []string{"/packages/thyroid-profile"}, nav.paths)
	require.Eventually(t, func() bool {
		_, _, inc := b.snapshot()
		return len(inc) == 1 && inc[0] == "thyroid-profile"
	}, time.Second, 5*time.Millisecond)
}

func TestSuggester_CloseStopsPendingTimer(t *testing.T) {
	b := newFakeBackend()
	s := NewSuggester(Options{Backend: b, Delay: 30 * time.Millisecond})

	s.Type("hba1c")
	s.Close()
	s.Type("again")
	time.Sleep(60 * time.Millisecond)

	queries, _, _ := b.snapshot()
	require.Empty(t, queries)
}

func TestSuggester_CloseAbortsInflight(t *testing.T) {
	b := newFakeBackend()
	release := b.hold("vitamin")
	defer release()
	s := NewSuggester(Options{Backend: b, Delay: 10 * time.Millisecond})

	s.Type("vitamin")
	waitQueried(t, b, "vitamin")
	s.Close()

	_, canceled, _ := b.snapshot()
	require.Equal(t, []string{"vitamin"}, canceled)
}

func TestSuggestionRoute(t *testing.T) {
	require.Equal(t, "/tests/cbc", Suggestion{Slug: "cbc", Type: model.ItemTypeTest}.Route())
	require.Equal(t, "/packages/full-body", Suggestion{Slug: "full-body", Type: model.ItemTypePackage}.Route())
	require.Equal(t, "/tests/x", Suggestion{Slug: "x"}.Route())
}
