package utils

import (
	"fmt"
	"image/color"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"
)

var colourRe = regexp.MustCompile(`^#[0-9A-Fa-f]{8}$`)

// Colour is a normalised RGBA colour as OpenGL consumes it.
type Colour struct {
	R, G, B, A float32
}

func ColourValidate(c string) bool {
	return colourRe.MatchString(c)
}

func ColourParseRGBA(s string) (c color.RGBA, err error) {
	if !ColourValidate(s) {
		return c, fmt.Errorf("%s is not a valid RGBA hex colour", s)
	}
	_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	return c, err
}

func ColourParse(s string) (Colour, error) {
	c, err := ColourParseRGBA(s)
	if err != nil {
		return Colour{}, err
	}
	return ColourFromRGBA(c), nil
}

func ColourFromRGBA(c color.RGBA) Colour {
	return Colour{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// RGBA quantises the colour to 8 bits per channel, the way a default
// framebuffer stores it.
func (c Colour) RGBA() color.RGBA {
	q := func(v float32) uint8 {
		v = mgl32.Clamp(v, 0, 1)
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: q(c.R), G: q(c.G), B: q(c.B), A: q(c.A)}
}

func (c Colour) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

func (c Colour) String() string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", rgba.R, rgba.G, rgba.B, rgba.A)
}
