package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/ironsheep/cone-lines/internal/detection"
)

// DrawSegments draws line segments of the given color and thickness onto a
// copy of img.
//
// Parameters:
//   - img: Source image. It is not modified.
//   - segs: Segments in pixel coordinates. Endpoints may lie anywhere,
//     including far outside the image.
//   - c: Line color.
//   - thickness: Line width in pixels.
//
// Returns the annotated copy, with bounds starting at (0,0).
//
// Each segment is clipped to the canvas (grown by the thickness so that line
// ends are not cut short) and filled as a quad centered on the segment.
// Pixel centers sit at half-integer coordinates, so a segment between
// integer points runs through the middle of those pixels.
func DrawSegments(img image.Image, segs []detection.Segment, c color.Color, thickness float64) *image.NRGBA {
	dst := imaging.Clone(img)
	bounds := dst.Bounds()
	src := image.NewUniform(c)

	clip := rectF{
		minX: -thickness,
		minY: -thickness,
		maxX: float64(bounds.Dx()) + thickness,
		maxY: float64(bounds.Dy()) + thickness,
	}

	for _, s := range segs {
		x0, y0, x1, y1, ok := clipSegment(
			float64(s.Start.X)+0.5, float64(s.Start.Y)+0.5,
			float64(s.End.X)+0.5, float64(s.End.Y)+0.5,
			clip,
		)
		if !ok {
			continue
		}

		dx, dy := x1-x0, y1-y0
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Half-thickness offset perpendicular to the segment
		nx := -dy / length * thickness / 2
		ny := dx / length * thickness / 2

		z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
		z.MoveTo(float32(x0+nx), float32(y0+ny))
		z.LineTo(float32(x1+nx), float32(y1+ny))
		z.LineTo(float32(x1-nx), float32(y1-ny))
		z.LineTo(float32(x0-nx), float32(y0-ny))
		z.ClosePath()
		z.Draw(dst, bounds, src, image.Point{})
	}

	return dst
}

type rectF struct {
	minX, minY, maxX, maxY float64
}

// clipSegment clips (x0,y0)-(x1,y1) to r with the Liang-Barsky method.
// ok is false when no part of the segment lies inside r.
func clipSegment(x0, y0, x1, y1 float64, r rectF) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - r.minX, r.maxX - x0, y0 - r.minY, r.maxY - y0}

	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// DrawApexes marks every apex with a small cross and its scan-order index.
// Intended for debugging mask bounds; img is not modified.
func DrawApexes(img image.Image, apexes []detection.Point, c color.Color) *image.NRGBA {
	dst := imaging.Clone(img)
	bounds := dst.Bounds()

	const arm = 4
	for i, a := range apexes {
		for d := -arm; d <= arm; d++ {
			if image.Pt(a.X+d, a.Y).In(bounds) {
				dst.Set(a.X+d, a.Y, c)
			}
			if image.Pt(a.X, a.Y+d).In(bounds) {
				dst.Set(a.X, a.Y+d, c)
			}
		}
		drawLabel(dst, a.X+arm+2, a.Y-arm-2, strconv.Itoa(i),
			color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}

	return dst
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// drawLabel draws a simple text label at the given position using a 3x5
// pixel font. Only digits have glyphs.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	// Background
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if image.Pt(px, py).In(bounds) {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
