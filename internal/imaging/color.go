package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// LabColor is an L*a*b* color on the 8-bit scale (see package docs).
type LabColor struct {
	L uint8 `json:"l"` // Lightness, L* * 255/100
	A uint8 `json:"a"` // Green-red axis, a* + 128
	B uint8 `json:"b"` // Blue-yellow axis, b* + 128
}

// InRange reports whether every channel lies inside the inclusive bounds.
func (c LabColor) InRange(lo, hi [3]int) bool {
	v := [3]int{int(c.L), int(c.A), int(c.B)}
	for i := range v {
		if v[i] < lo[i] || v[i] > hi[i] {
			return false
		}
	}
	return true
}

// ToLab converts a color to 8-bit L*a*b* under a D65 white point.
//
// When swapRB is set, red and blue are exchanged before conversion. Alpha is
// ignored: the stored channels are used, not the premultiplied ones.
func ToLab(c color.Color, swapRB bool) LabColor {
	r8, g8, b8 := rgb8(c)
	if swapRB {
		r8, b8 = b8, r8
	}
	return labFromRGB8(r8, g8, b8)
}

// rgb8 returns the non-premultiplied 8-bit channels of c.
func rgb8(c color.Color) (r, g, b uint8) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R, n.G, n.B
}

func labFromRGB8(r, g, b uint8) LabColor {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	// go-colorful reports L in 0-1 and a, b in hundredths
	l, a, bb := c.Lab()
	return LabColor{
		L: clampByte(l * 255.0),
		A: clampByte(a*100.0 + 128.0),
		B: clampByte(bb*100.0 + 128.0),
	}
}

// clampByte rounds v to the nearest integer and clamps it to 0-255.
func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// LabSample is the color of one pixel in both RGB and 8-bit L*a*b*.
type LabSample struct {
	X   int      `json:"x"`
	Y   int      `json:"y"`
	Hex string   `json:"hex"` // "#RRGGBB" as stored in the file
	RGB RGBColor `json:"rgb"`
	Lab LabColor `json:"lab"`
}

// SampleLab reads the pixel at (x, y) and reports it in RGB and L*a*b*.
//
// Parameters:
//   - img: The source image to sample from.
//   - x, y: 0-based coordinates.
//   - swapRB: Convert with red and blue exchanged, as BuildMask does when
//     MaskOptions.SwapRedBlue is set, so the reported value is directly
//     comparable with mask bounds.
//
// Returns an error if the coordinates are outside the image bounds.
func SampleLab(img image.Image, x, y int, swapRB bool) (*LabSample, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	px := img.At(x, y)
	r8, g8, b8 := rgb8(px)

	return &LabSample{
		X:   x,
		Y:   y,
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		Lab: ToLab(px, swapRB),
	}, nil
}
