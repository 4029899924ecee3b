package output

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/sargassum-watch/sargassum-dataset/internal/dataset"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
	"go.uber.org/zap"
)

// CreateManifestCSV writes the manifest with geometries as WKT.
func CreateManifestCSV(manifest dataset.Manifest, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	rows := []dataset.ManifestRow(manifest)
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error writing CSV manifest: %w", err)
	}

	utils.Logger.Info("CSV manifest created", zap.String("path", outputPath), zap.Int("rows", len(manifest)))
	return nil
}

// ReadManifestCSV loads a manifest written by CreateManifestCSV. Geometries
// stay in the WKT column.
func ReadManifestCSV(path string) (dataset.Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []dataset.ManifestRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error reading CSV manifest: %w", err)
	}
	return dataset.Manifest(rows), nil
}
