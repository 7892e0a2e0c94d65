package blink

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coretalks/ulp.go/pkg/board"
	"github.com/coretalks/ulp.go/pkg/board/neopixel"
	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/rig"
	"github.com/coretalks/ulp.go/pkg/rig/msgs"
	"github.com/coretalks/ulp.go/pkg/ulp"
	"github.com/coretalks/ulp.go/pkg/ulp/image"
)

const testPin = 3

// fakeCC is a hand-driven ControlContext with an explicit clock.
type fakeCC struct {
	now   time.Time
	store fakeStore
}

func (c *fakeCC) Time() time.Time                 { return c.now }
func (c *fakeCC) Context() context.Context        { return context.Background() }
func (c *fakeCC) PriorityLevel() int              { return 0 }
func (c *fakeCC) Messages() fx.MessageStore       { return &c.store }
func (c *fakeCC) PostRun(...fx.Controller)        {}
func (c *fakeCC) PreRunAt(int, ...fx.Controller)  {}
func (c *fakeCC) PostRunAt(int, ...fx.Controller) {}
func (c *fakeCC) PostMessage(fx.Message)          {}
func (c *fakeCC) TriggerNext()                    {}

type fakeStore struct {
	items []fx.Message
}

func (s *fakeStore) AddMessages(items ...fx.Message) {
	s.items = append(s.items, items...)
}

func (s *fakeStore) ProcessMessages(p fx.MessageProcessor) {
	working := s.items
	s.items = nil
	var kept []fx.Message
	for i, m := range working {
		mctx := &fakeMsgCtx{store: s, msg: m}
		p.ProcessMessage(mctx)
		if !mctx.taken {
			kept = append(kept, m)
		}
		if mctx.stopped {
			kept = append(kept, working[i+1:]...)
			break
		}
	}
	s.items = append(kept, s.items...)
}

type fakeMsgCtx struct {
	store   *fakeStore
	msg     fx.Message
	taken   bool
	stopped bool
}

func (mc *fakeMsgCtx) CurrentMessage() fx.Message      { return mc.msg }
func (mc *fakeMsgCtx) MessageTaken()                   { mc.taken = true }
func (mc *fakeMsgCtx) StopProcessing()                 { mc.stopped = true }
func (mc *fakeMsgCtx) AddMessages(items ...fx.Message) { mc.store.AddMessages(items...) }

type fakeCmd struct {
	msg     fx.Message
	replies []fx.Message
}

func (c *fakeCmd) Msg() fx.Message { return c.msg }

func (c *fakeCmd) Done(msg fx.Message) error {
	c.replies = append(c.replies, msg)
	return nil
}

type eventRecorder struct {
	events []fx.Message
}

func (r *eventRecorder) SendEvent(_ context.Context, msg fx.Message) error {
	r.events = append(r.events, msg)
	return nil
}

type stateRecorder struct {
	states []State
}

func (r *stateRecorder) StateChanged(_ fx.ControlContext, state State) {
	r.states = append(r.states, state)
}

func testImage() *image.Image {
	text := ulp.EncodeText([]ulp.Instr{
		{Op: ulp.OpGPIOInit, Arg: testPin},
		{Op: ulp.OpGPIOOutEn, Arg: testPin},
		{Op: ulp.OpToggle, Imm: 0},
		{Op: ulp.OpGPIOSet, Arg: testPin, Imm: 0},
		{Op: ulp.OpHalt},
	})
	return &image.Image{
		Text:    text,
		Data:    []uint32{0},
		Symbols: []image.Symbol{{Name: FlagSymbol, Addr: 0}},
	}
}

func newController(t *testing.T, loaded bool) (*Controller, *eventRecorder) {
	core := ulp.NewCore(board.NewSim())
	if loaded {
		require.NoError(t, core.Load(testImage()))
	}
	rec := &eventRecorder{}
	ctl := NewConfig().NewController(neopixel.NewStrip(1), core, rec)
	ctl.Out = new(bytes.Buffer)
	return ctl, rec
}

func TestControllerColorCycle(t *testing.T) {
	ctl, _ := newController(t, false)
	rec := &stateRecorder{}
	ctl.SubscribeStateChange(rec)

	cc := &fakeCC{now: time.Unix(100, 0)}
	expect := []neopixel.Color{
		neopixel.Red, neopixel.Green, neopixel.Blue, neopixel.Off, neopixel.Red,
	}
	for i, color := range expect {
		require.NoError(t, ctl.Advance(cc))
		require.NoError(t, ctl.NotifyChanges(cc))
		shown, err := ctl.Strip.At(0)
		require.NoError(t, err)
		require.Equal(t, color, shown, "step %d", i)

		// A message wake-up inside the hold window must not advance
		// the cycle.
		cc.store.AddMessages(&board.PinMsg{Pin: testPin, High: true})
		cc.now = cc.now.Add(ctl.Config.Hold / 2)
		require.NoError(t, ctl.Advance(cc))
		require.NoError(t, ctl.NotifyChanges(cc))
		shown, err = ctl.Strip.At(0)
		require.NoError(t, err)
		require.Equal(t, color, shown, "step %d early wake", i)

		cc.now = cc.now.Add(ctl.Config.Hold / 2)
	}

	var colors []neopixel.Color
	for _, state := range rec.states {
		colors = append(colors, state.Color)
	}
	require.Equal(t, expect, colors)
	require.Equal(t, uint64(1), rec.states[len(rec.states)-1].Cycles)

	require.Equal(t,
		"Setting color to RED\n"+
			"Setting color to GREEN\n"+
			"Setting color to BLUE\n"+
			"Turning off LED\n"+
			"Setting color to RED\n",
		ctl.Out.(*bytes.Buffer).String())
}

func TestControllerCommands(t *testing.T) {
	ctl, _ := newController(t, true)
	cc := &fakeCC{now: time.Unix(100, 0)}
	require.NoError(t, ctl.Advance(cc))

	status := &fakeCmd{msg: &msgs.RigStatusQuery{}}
	peekSym := &fakeCmd{msg: &msgs.PeekQuery{Symbol: FlagSymbol}}
	peekAddr := &fakeCmd{msg: &msgs.PeekQuery{Addr: 0}}
	peekBad := &fakeCmd{msg: &msgs.PeekQuery{Symbol: "bogus"}}
	other := &fakeCmd{msg: &msgs.ColorChange{}}
	cc.store.AddMessages(
		&rig.CommandMsg{Command: status},
		&rig.CommandMsg{Command: peekSym},
		&rig.CommandMsg{Command: peekAddr},
		&rig.CommandMsg{Command: peekBad},
		&rig.CommandMsg{Command: other},
		&board.PinMsg{Pin: testPin, High: true},
	)
	require.NoError(t, ctl.HandleCommands(cc))

	require.Len(t, status.replies, 1)
	reply := status.replies[0].(*msgs.RigStatus)
	require.Equal(t, "loaded", reply.State)
	require.Equal(t, "RED", reply.Color)
	require.Equal(t, uint64(0), reply.WakeCount)
	require.Equal(t, uint32(0), reply.Flag)

	require.Len(t, peekSym.replies, 1)
	val := peekSym.replies[0].(*msgs.PeekValue)
	require.Equal(t, FlagSymbol, val.Symbol)
	require.Equal(t, uint32(0), val.Value)

	require.Len(t, peekAddr.replies, 1)
	require.IsType(t, &msgs.PeekValue{}, peekAddr.replies[0])

	require.Len(t, peekBad.replies, 1)
	require.IsType(t, &msgs.CommandErr{}, peekBad.replies[0])

	// Unknown commands and non-command messages stay in the store
	// for the responders behind this controller.
	require.Empty(t, other.replies)
	require.Len(t, cc.store.items, 2)
}

func TestControllerEvents(t *testing.T) {
	ctl, rec := newController(t, true)
	cc := &fakeCC{now: time.Unix(100, 0)}

	cc.store.AddMessages(&board.PinMsg{Pin: testPin, High: true})
	require.NoError(t, ctl.NotifyChanges(cc))

	require.Len(t, rec.events, 2)
	pin := rec.events[0].(*msgs.PinChange)
	require.Equal(t, uint32(testPin), pin.Pin)
	require.True(t, pin.High)
	coreEv := rec.events[1].(*msgs.CoreState)
	require.Equal(t, "loaded", coreEv.State)
	require.Empty(t, cc.store.items)

	// Nothing changed, nothing reported.
	require.NoError(t, ctl.NotifyChanges(cc))
	require.Len(t, rec.events, 2)

	require.NoError(t, ctl.Advance(cc))
	require.NoError(t, ctl.NotifyChanges(cc))
	require.Len(t, rec.events, 3)
	color := rec.events[2].(*msgs.ColorChange)
	require.Equal(t, "RED", color.Color)
	require.Equal(t, uint32(0), color.Pixel)
}
