package board

import (
	"sync"
)

// Pin is the observable state of one I/O pin.
type Pin struct {
	Inited bool
	Output bool
	High   bool
}

// Sim emulates the low-power I/O matrix in memory. It is safe for
// concurrent use. Level writes are forwarded to subscribed listeners
// outside the internal lock.
type Sim struct {
	PinChangeCaster

	lock sync.Mutex
	pins [NumPins]Pin
}

// NewSim creates a Sim with all pins detached.
func NewSim() *Sim {
	return &Sim{}
}

// Init implements GPIO.
func (s *Sim) Init(pin int) error {
	if pin < 0 || pin >= NumPins {
		return ErrBadPin
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.pins[pin] = Pin{Inited: true}
	return nil
}

// OutputEnable implements GPIO.
func (s *Sim) OutputEnable(pin int) error {
	if pin < 0 || pin >= NumPins {
		return ErrBadPin
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.pins[pin].Inited {
		return ErrPinNotReady
	}
	s.pins[pin].Output = true
	return nil
}

// SetLevel implements GPIO. Every successful write is cast to the
// subscribed listeners, whether or not the level changed.
func (s *Sim) SetLevel(pin int, high bool) error {
	if pin < 0 || pin >= NumPins {
		return ErrBadPin
	}
	s.lock.Lock()
	if !s.pins[pin].Inited || !s.pins[pin].Output {
		s.lock.Unlock()
		return ErrPinNotReady
	}
	s.pins[pin].High = high
	s.lock.Unlock()
	s.PinChanged(pin, high)
	return nil
}

// Pin retrieves the state of one pin.
func (s *Sim) Pin(pin int) (Pin, error) {
	if pin < 0 || pin >= NumPins {
		return Pin{}, ErrBadPin
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pins[pin], nil
}
