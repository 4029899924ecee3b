package output

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/sargassum-watch/sargassum-dataset/internal/mask"
)

const previewScale = 2

// CreateMaskPreview renders a mask as a PNG quicklook: set pixels in
// sargassum yellow over a dark sea.
func CreateMaskPreview(m *mask.Mask, outputPath string) error {
	if m.Width == 0 || m.Height == 0 {
		return fmt.Errorf("cannot preview an empty mask")
	}

	dc := gg.NewContext(m.Width*previewScale, m.Height*previewScale)
	dc.SetRGB255(8, 32, 64)
	dc.Clear()

	dc.SetRGB255(214, 180, 60)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) == 1 {
				dc.DrawRectangle(float64(x*previewScale), float64(y*previewScale), previewScale, previewScale)
			}
		}
	}
	dc.Fill()

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}
