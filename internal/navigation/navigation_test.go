package navigation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	require.Empty(t, r.Take())

	r.Navigate("/tests/cbc")
	r.Navigate("/login")

	hints := r.Take()
	require.Len(t, hints, 2)
	require.Equal(t, "/tests/cbc", hints[0].Path)
	require.Equal(t, "/login", hints[1].Path)
	require.Empty(t, r.Take())
}
