package board

import (
	"errors"
)

// NumPins is the number of low-power I/O pins on the board.
const NumPins = 8

// Pin errors.
var (
	ErrBadPin      = errors.New("invalid pin number")
	ErrPinNotReady = errors.New("pin not configured for output")
)

// GPIO drives the digital output pins of the low-power I/O matrix.
// A pin must be initialized and output-enabled before it can be driven.
type GPIO interface {
	// Init attaches the pin to the I/O matrix with default state.
	Init(pin int) error
	// OutputEnable puts the pin in output mode.
	OutputEnable(pin int) error
	// SetLevel drives the pin high or low.
	SetLevel(pin int, high bool) error
}

// PinChangeListener listens for output level writes.
type PinChangeListener interface {
	PinChanged(pin int, high bool)
}

// PinChangeSubscriber subscribes pin change notifications.
type PinChangeSubscriber interface {
	SubscribePinChange(PinChangeListener)
}

// PinChangeCaster provides a subscriber and implements
// listener to cast notifications.
type PinChangeCaster struct {
	listeners []PinChangeListener
}

// SubscribePinChange implements PinChangeSubscriber.
func (c *PinChangeCaster) SubscribePinChange(ln PinChangeListener) {
	c.listeners = append(c.listeners, ln)
}

// PinChanged implements PinChangeListener.
func (c *PinChangeCaster) PinChanged(pin int, high bool) {
	for _, ln := range c.listeners {
		ln.PinChanged(pin, high)
	}
}
