package mask

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/airbusgeo/godal"
	"github.com/sargassum-watch/sargassum-dataset/internal/properties"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
)

// RasterID is the image file name up to its first dot.
func RasterID(imagePath string) string {
	return strings.SplitN(filepath.Base(imagePath), ".", 2)[0]
}

// Store persists masks under Dir, one file per raster id.
type Store struct {
	Dir    string
	Format string
}

func NewStore(dir, format string) *Store {
	if format == "" {
		format = properties.MaskFormatNPY
	}
	return &Store{Dir: dir, Format: format}
}

func (s *Store) Path(rasterID string) string {
	return filepath.Join(s.Dir, rasterID+"."+s.Format)
}

// Save writes m and returns its path.
func (s *Store) Save(rasterID string, m *Mask) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create mask directory: %w", err)
	}

	path := s.Path(rasterID)
	switch s.Format {
	case properties.MaskFormatNPY:
		if err := saveNPY(path, m); err != nil {
			return "", err
		}
	case properties.MaskFormatTIFF:
		if err := saveGeoTIFF(path, m); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown mask format %q", s.Format)
	}
	return path, nil
}

// Load reads a mask written by Save, choosing the codec by extension.
func Load(path string) (*Mask, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npy":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ReadNPY(file)
	case ".tif", ".tiff":
		return loadGeoTIFF(path)
	default:
		return nil, fmt.Errorf("unknown mask file type %s", path)
	}
}

func saveNPY(path string, m *Mask) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mask file: %w", err)
	}
	if err := WriteNPY(file, m); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func saveGeoTIFF(path string, m *Mask) error {
	utils.RegisterGDAL()

	var err error
	utils.ExecuteWithMutex(func() {
		var ds *godal.Dataset
		ds, err = godal.Create(godal.GTiff, path, 1, godal.Byte, m.Width, m.Height)
		if err != nil {
			err = fmt.Errorf("failed to create mask GeoTIFF: %w", err)
			return
		}
		defer func() {
			if closeErr := ds.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()

		if m.Transform != ([6]float64{}) {
			if err = ds.SetGeoTransform(m.Transform); err != nil {
				return
			}
			sr, srErr := godal.NewSpatialRefFromEPSG(4326)
			if srErr != nil {
				err = srErr
				return
			}
			defer sr.Close()
			if err = ds.SetSpatialRef(sr); err != nil {
				return
			}
		}

		err = ds.Bands()[0].Write(0, 0, m.Data, m.Width, m.Height)
	})
	return err
}

func loadGeoTIFF(path string) (*Mask, error) {
	utils.RegisterGDAL()

	var m *Mask
	var err error
	utils.ExecuteWithMutex(func() {
		var ds *godal.Dataset
		ds, err = godal.Open(path, godal.RasterOnly())
		if err != nil {
			return
		}
		defer ds.Close()

		structure := ds.Structure()
		m = New(structure.SizeX, structure.SizeY)
		if gt, gtErr := ds.GeoTransform(); gtErr == nil {
			m.Transform = gt
		}
		err = ds.Bands()[0].Read(0, 0, m.Data, m.Width, m.Height)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
