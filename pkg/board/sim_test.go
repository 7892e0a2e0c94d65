package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type pinChange struct {
	pin  int
	high bool
}

type changeRecorder struct {
	changes []pinChange
}

func (r *changeRecorder) PinChanged(pin int, high bool) {
	r.changes = append(r.changes, pinChange{pin: pin, high: high})
}

func TestSimPinLifecycle(t *testing.T) {
	s := NewSim()
	require.Equal(t, ErrBadPin, s.Init(-1))
	require.Equal(t, ErrBadPin, s.Init(NumPins))
	require.Equal(t, ErrPinNotReady, s.OutputEnable(3))
	require.Equal(t, ErrPinNotReady, s.SetLevel(3, true))

	require.NoError(t, s.Init(3))
	require.Equal(t, ErrPinNotReady, s.SetLevel(3, true))
	require.NoError(t, s.OutputEnable(3))
	require.NoError(t, s.SetLevel(3, true))

	pin, err := s.Pin(3)
	require.NoError(t, err)
	require.Equal(t, Pin{Inited: true, Output: true, High: true}, pin)

	// Re-init detaches the pin.
	require.NoError(t, s.Init(3))
	pin, err = s.Pin(3)
	require.NoError(t, err)
	require.Equal(t, Pin{Inited: true}, pin)
}

func TestSimCastsLevelWrites(t *testing.T) {
	s := NewSim()
	rec := &changeRecorder{}
	s.SubscribePinChange(rec)

	require.NoError(t, s.Init(3))
	require.NoError(t, s.OutputEnable(3))
	require.NoError(t, s.SetLevel(3, true))
	require.NoError(t, s.SetLevel(3, true))
	require.NoError(t, s.SetLevel(3, false))

	require.Equal(t, []pinChange{
		{pin: 3, high: true},
		{pin: 3, high: true},
		{pin: 3, high: false},
	}, rec.changes)
}

func TestSimIndependentPins(t *testing.T) {
	s := NewSim()
	for _, pin := range []int{1, 4} {
		require.NoError(t, s.Init(pin))
		require.NoError(t, s.OutputEnable(pin))
	}
	require.NoError(t, s.SetLevel(1, true))

	pin, err := s.Pin(4)
	require.NoError(t, err)
	require.False(t, pin.High)
}
