package model

import "image/color"

// Colour is one of the fixed window backgrounds.
type Colour int

const (
	ColourWhite Colour = iota
	ColourRed
	ColourGreen
	ColourBlue
)

// NRGBA returns the opaque colour value.
func (colour Colour) NRGBA() color.NRGBA {
	switch colour {
	case ColourRed:
		return color.NRGBA{R: 255, G: 150, B: 150, A: 255}
	case ColourGreen:
		return color.NRGBA{R: 150, G: 255, B: 150, A: 255}
	case ColourBlue:
		return color.NRGBA{R: 200, G: 200, B: 255, A: 255}
	default:
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
}

func (colour Colour) String() string {
	switch colour {
	case ColourWhite:
		return "white"
	case ColourRed:
		return "red"
	case ColourGreen:
		return "green"
	case ColourBlue:
		return "blue"
	default:
		return "unknown"
	}
}
