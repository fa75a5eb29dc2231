package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SnapshotKey is the storage key holding the whole cart.
const SnapshotKey = "cart"

// SnapshotVersion is the envelope version written by this build. Version 0
// is the legacy unversioned blob: the raw state object with no envelope.
const SnapshotVersion = 1

var ErrUnsupportedSnapshot = errors.New("unsupported cart snapshot version")

type snapshotEnvelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	State   json.RawMessage `json:"state"`
}

func EncodeSnapshot(s State, savedAt time.Time) ([]byte, error) {
	state, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode cart state: %w", err)
	}
	return json.Marshal(snapshotEnvelope{
		Version: SnapshotVersion,
		SavedAt: savedAt.UTC(),
		State:   state,
	})
}

// DecodeSnapshot reads either envelope version. The result is normalized so
// the (id, type) uniqueness and step range hold even for hand-edited blobs.
func DecodeSnapshot(b []byte) (State, error) {
	var probe struct {
		Version *int            `json:"version"`
		State   json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return State{}, fmt.Errorf("decode cart snapshot: %w", err)
	}

	raw := b
	switch {
	case probe.Version == nil:
		// legacy v0
	case *probe.Version == SnapshotVersion:
		raw = probe.State
	default:
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, *probe.Version)
	}

	s := InitialState()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s); err != nil {
			return State{}, fmt.Errorf("decode cart state: %w", err)
		}
	}
	return s.normalize(), nil
}
