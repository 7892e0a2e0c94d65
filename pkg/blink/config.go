package blink

import "time"

// DefaultHold is how long each color stays before the next change.
const DefaultHold = 1000 * time.Millisecond

// Config provides options for the blink controller. The demo never
// overrides these, the values are fixed constants of the binary.
type Config struct {
	// Hold is the color hold duration.
	Hold time.Duration
	// Pixel is the driven pixel index on the strip.
	Pixel int
}

var defaultConfig = Config{
	Hold: DefaultHold,
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
