package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/cone-lines/internal/detection"
)

// MaskOptions configures BuildMask.
type MaskOptions struct {
	// LoBounds and HiBounds are inclusive 8-bit L*a*b* limits per channel.
	LoBounds [3]int
	HiBounds [3]int

	// KernelRadius sets the morphology window to 2*KernelRadius+1 pixels
	// across. Zero skips the opening and dilation.
	KernelRadius int

	// SwapRedBlue exchanges red and blue before conversion.
	SwapRedBlue bool
}

// DefaultMaskOptions returns the bounds tuned for red traffic cones.
func DefaultMaskOptions() MaskOptions {
	return MaskOptions{
		LoBounds:     [3]int{50, 160, 0},
		HiBounds:     [3]int{90, 255, 255},
		KernelRadius: 2,
		SwapRedBlue:  true,
	}
}

// BuildMask marks the pixels of img that fall inside the configured color
// range.
//
// Parameters:
//   - img: Source color image.
//   - opts: Color bounds and cleanup settings.
//
// Returns:
//   - *detection.Mask: Same width and height as img.
//   - error: Non-nil for an empty image or inverted bounds.
//
// # Algorithm
//
//  1. Convert every pixel to 8-bit L*a*b* and test it against the bounds.
//  2. Open the mask (erode, then dilate) to remove speckle noise.
//  3. Dilate once more so cone shapes are larger and more uniform.
//
// Steps 2 and 3 use bild's erode/dilate filters with a window
// 2*KernelRadius+1 pixels across and are skipped when KernelRadius is 0.
func BuildMask(img image.Image, opts MaskOptions) (*detection.Mask, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("cannot build mask for empty image")
	}
	for i := 0; i < 3; i++ {
		if opts.LoBounds[i] > opts.HiBounds[i] {
			return nil, fmt.Errorf("invalid bounds: channel %d low %d above high %d",
				i, opts.LoBounds[i], opts.HiBounds[i])
		}
	}

	var filtered image.Image = thresholdLab(img, opts)

	if opts.KernelRadius > 0 {
		radius := float64(opts.KernelRadius)
		opened := effect.Dilate(effect.Erode(filtered, radius), radius)
		filtered = effect.Dilate(opened, radius)
	}

	m, err := detection.NewMask(width, height)
	if err != nil {
		return nil, err
	}
	fb := filtered.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := filtered.At(fb.Min.X+x, fb.Min.Y+y).RGBA()
			m.Set(x, y, r >= 0x8000)
		}
	}

	return m, nil
}

// thresholdLab returns a white-on-black image of the in-range pixels.
func thresholdLab(img image.Image, opts MaskOptions) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	// Conversions are memoized per RGB value.
	cache := make(map[[3]uint8]bool)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b := rgb8(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			key := [3]uint8{r, g, b}
			in, ok := cache[key]
			if !ok {
				in = ToLab(color.RGBA{R: key[0], G: key[1], B: key[2], A: 0xff}, opts.SwapRedBlue).
					InRange(opts.LoBounds, opts.HiBounds)
				cache[key] = in
			}
			if in {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return out
}

// MaskImage renders a mask as a white-on-black grayscale image.
func MaskImage(m *detection.Mask) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
