package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with channels nominally in 0–255. Channels are floats and
// are never clamped by the blending functions; out-of-range values only get
// clamped when converted for the terminal.
type RGB [3]float64

// Reference colors of the purple meter theme.
var (
	ColorPrimary = RGB{128, 0, 128} // purple
	ColorSecond  = RGB{148, 0, 211} // dark violet
	ColorAccent  = RGB{186, 85, 211} // medium orchid
)

// BorderDarken is subtracted from each channel to get box border colors.
const BorderDarken = 50

// Border colors of the weight boxes. EmptyBorderAlpha is the opacity of the
// black border drawn around empty boxes.
var (
	ColorFilledBorder = Darken(ColorPrimary, BorderDarken)
	ColorEmptyBorder  = RGB{0, 0, 0}
)

const EmptyBorderAlpha = 0.3

// ColorBackground is the overlay background every translucent color is
// composited onto.
var ColorBackground = RGB{30, 24, 38}

// MixChannel returns a*amount + b*(1-amount).
func MixChannel(a, b, amount float64) float64 {
	return a*amount + b*(1-amount)
}

// Mix blends a and b per channel. amount 1 gives a, 0 gives b; values outside
// [0,1] extrapolate.
func Mix(a, b RGB, amount float64) RGB {
	return RGB{
		MixChannel(a[0], b[0], amount),
		MixChannel(a[1], b[1], amount),
		MixChannel(a[2], b[2], amount),
	}
}

// Darken subtracts by from every channel, flooring at 0.
func Darken(c RGB, by float64) RGB {
	var out RGB
	for i, v := range c {
		out[i] = max(v-by, 0)
	}
	return out
}

// BarColor picks the meter color for percent.
//
// Durability bars go accent→primary below 50 and second→accent from 50 up;
// weight bars go accent→second up to 50 and primary→accent above it. Only
// the lower weight range is renormalized (percent/50); every other range
// uses percent/100 directly, so the gradient is not continuous at 50.
func BarColor(percent float64, durability bool) RGB {
	if durability {
		if percent < 50 {
			return Mix(ColorAccent, ColorPrimary, percent/100)
		}
		return Mix(ColorSecond, ColorAccent, percent/100)
	}
	if percent > 50 {
		return Mix(ColorPrimary, ColorAccent, percent/100)
	}
	return Mix(ColorAccent, ColorSecond, percent/50)
}

// String formats c the way CSS does, e.g. "rgb(167, 42.5, 211)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%v, %v, %v)", c[0], c[1], c[2])
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: c[0] / 255, G: c[1] / 255, B: c[2] / 255}
}

// Over composites c at the given opacity onto bg.
func (c RGB) Over(bg RGB, opacity float64) RGB {
	out := bg.colorful().BlendRgb(c.colorful(), opacity)
	return RGB{out.R * 255, out.G * 255, out.B * 255}
}

// Tcell converts c to a terminal color, clamping to the displayable range.
func (c RGB) Tcell() tcell.Color {
	r, g, b := c.colorful().Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
