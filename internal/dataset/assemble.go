package dataset

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/sargassum-watch/sargassum-dataset/internal/annotation"
)

// MaskResult is the saved mask of one annotation, or why it is missing.
type MaskResult struct {
	Path string
	Err  error
}

// ManifestRow joins one annotation with its acquisition and mask.
type ManifestRow struct {
	Geometry orb.Geometry `csv:"-" parquet:"-" json:"-"`

	WKT              string `csv:"geometry" parquet:"geometry" json:"-"`
	Class            string `csv:"class" parquet:"class" json:"class"`
	Date             string `csv:"date" parquet:"date" json:"date"`
	Source           string `csv:"source" parquet:"source" json:"source"`
	SpacecraftName   string `csv:"spacecraft_name" parquet:"spacecraft_name" json:"spacecraft_name"`
	AzimuthAngle     string `csv:"azimuth_angle" parquet:"azimuth_angle" json:"azimuth_angle"`
	ZenithAngle      string `csv:"zenith_angle" parquet:"zenith_angle" json:"zenith_angle"`
	Time             string `csv:"time" parquet:"time" json:"time"`
	ImagePath        string `csv:"path" parquet:"path" json:"path"`
	MaskPath         string `csv:"mask_path" parquet:"mask_path" json:"mask_path"`
	AcquisitionError string `csv:"acquisition_error" parquet:"acquisition_error" json:"acquisition_error"`
	MaskError        string `csv:"mask_error" parquet:"mask_error" json:"mask_error"`
}

type Manifest []ManifestRow

// Acquired counts rows with an image.
func (m Manifest) Acquired() int {
	n := 0
	for _, row := range m {
		if row.ImagePath != "" {
			n++
		}
	}
	return n
}

// Masked counts rows with a saved mask.
func (m Manifest) Masked() int {
	n := 0
	for _, row := range m {
		if row.MaskPath != "" {
			n++
		}
	}
	return n
}

// Assemble joins the three sequences by position. Every annotation yields a
// row, failed ones with empty metadata.
func Assemble(annotations []annotation.Annotation, acquisitions []Acquisition, masks []MaskResult) (Manifest, error) {
	if len(acquisitions) != len(annotations) || len(masks) != len(annotations) {
		return nil, fmt.Errorf("cannot assemble %d annotations with %d acquisitions and %d masks", len(annotations), len(acquisitions), len(masks))
	}

	manifest := make(Manifest, len(annotations))
	for i, ann := range annotations {
		acq := acquisitions[i]
		row := ManifestRow{
			Geometry:       ann.Geometry,
			Class:          ann.ClassLabel,
			Date:           ann.CaptureDate.Format("2006-01-02"),
			Source:         ann.Source,
			SpacecraftName: acq.SpacecraftName,
			AzimuthAngle:   acq.AzimuthAngle,
			ZenithAngle:    acq.ZenithAngle,
			Time:           acq.AcquisitionTime,
			ImagePath:      acq.ImagePath,
			MaskPath:       masks[i].Path,
		}
		if ann.Geometry != nil {
			row.WKT = wkt.MarshalString(ann.Geometry)
		}
		if acq.Err != nil {
			row.AcquisitionError = acq.Err.Error()
		}
		if masks[i].Err != nil {
			row.MaskError = masks[i].Err.Error()
		}
		manifest[i] = row
	}
	return manifest, nil
}
