package tree

import (
	"fmt"
	"image/color"
	"math/rand/v2"
)

// ColourSource produces the render colour assigned to a node at construction.
// The colour is a hint for renderers; layout never reads it.
type ColourSource func() color.RGBA

// RandomColours returns a deterministic source seeded with seed.
// Each source owns its generator and must not be shared across goroutines.
func RandomColours(seed uint64) ColourSource {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	return func() color.RGBA {
		return color.RGBA{R: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), B: uint8(rng.IntN(256)), A: 0xff}
	}
}

// defaultColours draws from the global generator, which is safe for concurrent use.
func defaultColours() color.RGBA {
	return color.RGBA{R: uint8(rand.IntN(256)), G: uint8(rand.IntN(256)), B: uint8(rand.IntN(256)), A: 0xff}
}

// FormatColour renders c as "#rrggbb".
func FormatColour(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColour parses "#rrggbb". The alpha channel is always opaque.
func ParseColour(s string) (color.RGBA, error) {
	var c color.RGBA
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	c.A = 0xff
	return c, nil
}
