package detection

import "fmt"

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Mask is a binary object mask with the same dimensions as its source image.
//
// Pixels are stored row-major: the flag for (x, y) lives at Pix[y*Width+x].
// A Mask is filled once by its producer and treated as read-only afterwards.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask allocates an all-false mask of the given size.
func NewMask(width, height int) (*Mask, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid mask size %dx%d", width, height)
	}
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}, nil
}

// At reports whether (x, y) is an object pixel. Out-of-range coordinates
// are reported as background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as object or background. Out-of-range coordinates are
// ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = v
}

// Row returns the flags for row y. The slice aliases the mask.
func (m *Mask) Row(y int) []bool {
	return m.Pix[y*m.Width : (y+1)*m.Width]
}

// Count returns the number of object pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}
