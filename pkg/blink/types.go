package blink

import (
	"github.com/coretalks/ulp.go/pkg/board/neopixel"
	fx "github.com/coretalks/ulp.go/pkg/framework"
	"github.com/coretalks/ulp.go/pkg/ulp"
)

// FlagSymbol is the exported symbol of the toggle flag in the demo
// co-processor program.
const FlagSymbol = "led_state"

// DemoPalette is the fixed color cycle of the demo.
var DemoPalette = neopixel.Palette{
	neopixel.Red,
	neopixel.Green,
	neopixel.Blue,
	neopixel.Off,
}

// State is the observable state of the blink rig.
type State struct {
	// Color is the last committed LED color.
	Color neopixel.Color
	// Cycles counts completed palette cycles.
	Cycles uint64
	// Core is the co-processor unit state.
	Core ulp.State
	// Wakes is the co-processor wake count.
	Wakes uint64
	// Flag is the persisted toggle flag of the co-processor program.
	Flag uint32
}

// StateChangeListener listens for rig state changes.
type StateChangeListener interface {
	StateChanged(cc fx.ControlContext, state State)
}

// StateChangeSubscriber subscribes state change notifications.
type StateChangeSubscriber interface {
	SubscribeStateChange(StateChangeListener)
}

// StateChangeCaster provides a subscriber and implements
// listener to cast notifications.
type StateChangeCaster struct {
	listeners []StateChangeListener
}

// SubscribeStateChange implements StateChangeSubscriber.
func (c *StateChangeCaster) SubscribeStateChange(ln StateChangeListener) {
	c.listeners = append(c.listeners, ln)
}

// StateChanged implements StateChangeListener.
func (c *StateChangeCaster) StateChanged(cc fx.ControlContext, state State) {
	for _, ln := range c.listeners {
		ln.StateChanged(cc, state)
	}
}
