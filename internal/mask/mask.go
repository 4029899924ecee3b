package mask

import "fmt"

// Mask is a row-major binary occupancy grid. Values are 0 or 1.
type Mask struct {
	Width  int
	Height int
	Data   []uint8
	// Transform is the geotransform of the mask's pixel (0, 0) corner.
	Transform [6]float64
}

func New(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Data:   make([]uint8, width*height),
	}
}

func (m *Mask) At(x, y int) uint8 {
	return m.Data[y*m.Width+x]
}

func (m *Mask) Set(x, y int, v uint8) {
	m.Data[y*m.Width+x] = v
}

// Count returns the number of pixels set to 1.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Data {
		n += int(v)
	}
	return n
}

func (m *Mask) Shape() (int, int) {
	return m.Height, m.Width
}

func (m *Mask) String() string {
	return fmt.Sprintf("mask(%dx%d, %d set)", m.Height, m.Width, m.Count())
}

// Crop returns the top-left height x width window of m.
func (m *Mask) Crop(width, height int) *Mask {
	if width > m.Width {
		width = m.Width
	}
	if height > m.Height {
		height = m.Height
	}
	out := New(width, height)
	out.Transform = m.Transform
	for y := 0; y < height; y++ {
		copy(out.Data[y*width:(y+1)*width], m.Data[y*m.Width:y*m.Width+width])
	}
	return out
}

// CropToMinimum crops every mask to the smallest height and width found
// among them.
func CropToMinimum(masks []*Mask) []*Mask {
	if len(masks) == 0 {
		return nil
	}
	minWidth, minHeight := masks[0].Width, masks[0].Height
	for _, m := range masks[1:] {
		minWidth = min(minWidth, m.Width)
		minHeight = min(minHeight, m.Height)
	}

	cropped := make([]*Mask, len(masks))
	for i, m := range masks {
		cropped[i] = m.Crop(minWidth, minHeight)
	}
	return cropped
}
