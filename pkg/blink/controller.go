// Package blink implements the primary-core controller of the demo
// rig: it cycles the RGB LED through the fixed palette while the
// co-processor toggles its pin, and serves operator commands.
package blink

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/coretalks/ulp.go/pkg/board"
	"github.com/coretalks/ulp.go/pkg/board/neopixel"
	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/rig"
	"github.com/coretalks/ulp.go/pkg/rig/msgs"
	"github.com/coretalks/ulp.go/pkg/ulp"
)

// Controller is the primary-core controller. It advances the LED
// palette on an absolute hold schedule, answers status and peek
// commands, and reports state changes. The palette never consults
// co-processor or pin state.
type Controller struct {
	Config    *Config
	Strip     *neopixel.Strip
	Core      *ulp.Core
	Registrar rig.Registrar
	// Out receives the progress lines, stdout by default.
	Out io.Writer

	StateChangeCaster

	step   int
	nextAt time.Time
	color  neopixel.Color
	cycles uint64
	last   State
}

// NewController creates the Controller.
func (c *Config) NewController(strip *neopixel.Strip, core *ulp.Core, registrar rig.Registrar) *Controller {
	return &Controller{Config: c, Strip: strip, Core: core, Registrar: registrar, Out: os.Stdout}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvControl, fx.ControlFunc(c.HandleCommands))
	loop.AddController(fx.PrLvActuate, fx.ControlFunc(c.Advance))
	loop.AddController(fx.PrLvReport, fx.ControlFunc(c.NotifyChanges))
}

// Advance drives the color cycle. The schedule is absolute: a step
// happens when the hold duration expired, message wake-ups in between
// never advance it early.
func (c *Controller) Advance(cc fx.ControlContext) error {
	now := cc.Time()
	if c.nextAt.IsZero() {
		c.nextAt = now
	}
	if now.Before(c.nextAt) {
		return nil
	}
	color := DemoPalette[c.step]
	if color == neopixel.Off {
		fmt.Fprintln(c.Out, "Turning off LED")
	} else {
		fmt.Fprintf(c.Out, "Setting color to %v\n", color)
	}
	if err := c.Strip.SetPixel(c.Config.Pixel, color); err != nil {
		return err
	}
	c.Strip.Show()
	c.color = color
	if c.step = (c.step + 1) % len(DemoPalette); c.step == 0 {
		c.cycles++
	}
	c.nextAt = c.nextAt.Add(c.Config.Hold)
	return nil
}

// HandleCommands processes operator commands. Unknown commands are
// left for the generic unsupported-command responder.
func (c *Controller) HandleCommands(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*rig.CommandMsg)
		if !ok {
			return
		}
		switch query := cmdMsg.Command.Msg().(type) {
		case *msgs.RigStatusQuery:
			mctx.MessageTaken()
			c.reply(cmdMsg.Command, c.status())
		case *msgs.PeekQuery:
			mctx.MessageTaken()
			c.reply(cmdMsg.Command, c.peek(query))
		}
	}))
	return nil
}

// NotifyChanges reports state changes to registrars and panel
// subscribers, and re-emits pin edges as events.
func (c *Controller) NotifyChanges(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		pinMsg, ok := mctx.CurrentMessage().(*board.PinMsg)
		if !ok {
			return
		}
		mctx.MessageTaken()
		c.sendEvent(cc, &msgs.PinChange{Pin: uint32(pinMsg.Pin), High: pinMsg.High})
	}))
	state := c.snapshot()
	if state == c.last {
		return nil
	}
	if state.Color != c.last.Color {
		c.sendEvent(cc, &msgs.ColorChange{Pixel: uint32(c.Config.Pixel), Color: state.Color.String()})
	}
	if state.Core != c.last.Core || state.Wakes != c.last.Wakes {
		c.sendEvent(cc, &msgs.CoreState{State: state.Core.String(), WakeCount: state.Wakes})
	}
	c.last = state
	c.StateChanged(cc, state)
	return nil
}

func (c *Controller) status() fx.Message {
	state := c.snapshot()
	return &msgs.RigStatus{
		State:     state.Core.String(),
		WakeCount: state.Wakes,
		Color:     state.Color.String(),
		Cycles:    state.Cycles,
		Flag:      state.Flag,
	}
}

func (c *Controller) peek(q *msgs.PeekQuery) fx.Message {
	var (
		val uint32
		err error
	)
	switch {
	case q.Symbol != "":
		val, err = c.Core.PeekSymbol(q.Symbol)
	case q.Addr > 0xffff:
		err = ulp.ErrBadAddress
	default:
		val, err = c.Core.Peek(uint16(q.Addr))
	}
	if err != nil {
		return msgs.NewCommandErr(err)
	}
	return &msgs.PeekValue{Symbol: q.Symbol, Addr: q.Addr, Value: val}
}

func (c *Controller) snapshot() State {
	state := State{
		Color:  c.color,
		Cycles: c.cycles,
		Core:   c.Core.State(),
		Wakes:  c.Core.WakeCount(),
	}
	if val, err := c.Core.PeekSymbol(FlagSymbol); err == nil {
		state.Flag = val
	}
	return state
}

func (c *Controller) reply(cmd rig.Command, msg fx.Message) {
	if err := cmd.Done(msg); err != nil {
		glog.Errorf("command reply error: %v", err)
	}
}

func (c *Controller) sendEvent(cc fx.ControlContext, msg fx.Message) {
	if c.Registrar == nil {
		return
	}
	if err := c.Registrar.SendEvent(cc.Context(), msg); err != nil {
		glog.Warningf("send event error: %v", err)
	}
}
