// Package neopixel models a strip of addressable RGB LEDs. Pixel
// writes are staged and become visible only when Show latches them,
// matching the wire behavior of the real part.
package neopixel

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBadPixel reports a pixel index outside the strip.
var ErrBadPixel = errors.New("pixel index out of range")

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Well-known colors.
var (
	Red   = Color{R: 255}
	Green = Color{G: 255}
	Blue  = Color{B: 255}
	Off   = Color{}
)

// String formats well-known colors by name, others as #rrggbb.
func (c Color) String() string {
	switch c {
	case Red:
		return "RED"
	case Green:
		return "GREEN"
	case Blue:
		return "BLUE"
	case Off:
		return "OFF"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette is an ordered list of colors.
type Palette []Color

// Strip is an in-memory strip of addressable RGB LEDs.
// It is safe for concurrent use.
type Strip struct {
	lock   sync.Mutex
	staged []Color
	shown  []Color
}

// NewStrip creates a Strip of n dark pixels.
func NewStrip(n int) *Strip {
	return &Strip{
		staged: make([]Color, n),
		shown:  make([]Color, n),
	}
}

// Len is the number of pixels.
func (s *Strip) Len() int {
	return len(s.shown)
}

// SetPixel stages a color. It is not visible until Show.
func (s *Strip) SetPixel(index int, c Color) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if index < 0 || index >= len(s.staged) {
		return ErrBadPixel
	}
	s.staged[index] = c
	return nil
}

// Show latches all staged colors.
func (s *Strip) Show() {
	s.lock.Lock()
	defer s.lock.Unlock()
	copy(s.shown, s.staged)
}

// At retrieves the latched color of one pixel.
func (s *Strip) At(index int) (Color, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if index < 0 || index >= len(s.shown) {
		return Color{}, ErrBadPixel
	}
	return s.shown[index], nil
}

// Frame renders the latched pixels as the GRB wire frame.
func (s *Strip) Frame() []byte {
	s.lock.Lock()
	defer s.lock.Unlock()
	frame := make([]byte, 0, len(s.shown)*3)
	for _, c := range s.shown {
		frame = append(frame, c.G, c.R, c.B)
	}
	return frame
}
