package neopixel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripShowLatches(t *testing.T) {
	s := NewStrip(2)
	require.NoError(t, s.SetPixel(0, Red))

	c, err := s.At(0)
	require.NoError(t, err)
	require.Equal(t, Off, c, "staged color visible before Show")

	s.Show()
	c, err = s.At(0)
	require.NoError(t, err)
	require.Equal(t, Red, c)

	c, err = s.At(1)
	require.NoError(t, err)
	require.Equal(t, Off, c)
}

func TestStripBounds(t *testing.T) {
	s := NewStrip(1)
	require.Equal(t, ErrBadPixel, s.SetPixel(1, Red))
	require.Equal(t, ErrBadPixel, s.SetPixel(-1, Red))
	_, err := s.At(1)
	require.Equal(t, ErrBadPixel, err)
}

func TestFrameByteOrder(t *testing.T) {
	s := NewStrip(2)
	require.NoError(t, s.SetPixel(0, Color{R: 1, G: 2, B: 3}))
	require.NoError(t, s.SetPixel(1, Blue))
	s.Show()
	require.Equal(t, []byte{2, 1, 3, 0, 0, 255}, s.Frame())
}

func TestColorNames(t *testing.T) {
	require.Equal(t, "RED", Red.String())
	require.Equal(t, "GREEN", Green.String())
	require.Equal(t, "BLUE", Blue.String())
	require.Equal(t, "OFF", Off.String())
	require.Equal(t, "#0a0b0c", Color{R: 10, G: 11, B: 12}.String())
}
