package msgs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/coretalks/ulp.go/pkg/framework"
)

type plainMsg struct {
}

func (m *plainMsg) NewMessage() fx.Message { return &plainMsg{} }

func TestTypedRoundTrip(t *testing.T) {
	typed, err := TypedFrom(&ColorChange{Pixel: 1, Color: "RED"})
	require.NoError(t, err)
	require.True(t, typed.IsEvent())
	require.False(t, typed.IsCommand())

	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, ColorChangeTypeID, decoded.TypeId)

	msg, err := decoded.Decode()
	require.NoError(t, err)
	require.Equal(t, &ColorChange{Pixel: 1, Color: "RED"}, msg)
}

func TestTypedSequence(t *testing.T) {
	typed, err := TypedFrom(&PeekQuery{Symbol: "led_state"})
	require.NoError(t, err)
	require.True(t, typed.IsCommand())
	typed.Sequence = 42

	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, uint32(42), decoded.Sequence)

	msg, err := decoded.Decode()
	require.NoError(t, err)
	require.Equal(t, &PeekQuery{Symbol: "led_state"}, msg)
}

func TestTypedUnknownType(t *testing.T) {
	typed := &Typed{TypeId: GroupCustom | 0x1234}
	_, err := typed.Decode()
	var unknown *ErrUnknownType
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, GroupCustom|0x1234, unknown.TypeID)
}

func TestTypedNotSerializable(t *testing.T) {
	_, err := TypedFrom(&plainMsg{})
	require.Equal(t, ErrNotSerializable, err)
}

func TestMessageTypeIDs(t *testing.T) {
	for id, msg := range MessageTypes {
		require.Equal(t, id, msg.TypeID())
	}

	// Replies and events carry their markers.
	require.NotZero(t, CommandOKTypeID&TypeIDMaskReply)
	require.NotZero(t, RigStatusTypeID&TypeIDMaskReply)
	require.Equal(t, TypeIDKindEvent, ColorChangeTypeID&TypeIDMaskKind)
	require.Equal(t, TypeIDKindEvent, PinChangeTypeID&TypeIDMaskKind)
	require.Equal(t, TypeIDKindCommand, PeekQueryTypeID&TypeIDMaskKind)
}

func TestCommandErr(t *testing.T) {
	err := NewCommandErr(errors.New("boom"))
	require.Equal(t, "boom", err.Error())

	typed, terr := TypedFrom(err)
	require.NoError(t, terr)
	require.True(t, typed.IsCommand(), "replies ride the command kind")
}
