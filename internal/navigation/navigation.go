// Package navigation records the routes the core asks the UI shell to show,
// such as a search pick or a forced logout.
package navigation

import (
	"sync"
	"time"
)

type Hint struct {
	Path string    `json:"path"`
	At   time.Time `json:"at"`
}

// Recorder keeps the pending hints until the shell takes them.
type Recorder struct {
	mu      sync.Mutex
	pending []Hint
	now     func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, Hint{Path: path, At: r.now().UTC()})
}

// Take returns the pending hints in order and forgets them.
func (r *Recorder) Take() []Hint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.pending
	r.pending = nil
	if out == nil {
		out = []Hint{}
	}
	return out
}
