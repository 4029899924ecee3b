package output

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
	"github.com/sargassum-watch/sargassum-dataset/internal/dataset"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
	"go.uber.org/zap"
)

func CreateManifestParquet(manifest dataset.Manifest, outputPath string) error {
	if err := parquet.WriteFile(outputPath, []dataset.ManifestRow(manifest)); err != nil {
		return fmt.Errorf("error writing parquet manifest: %w", err)
	}

	utils.Logger.Info("Parquet manifest created", zap.String("path", outputPath), zap.Int("rows", len(manifest)))
	return nil
}

func ReadManifestParquet(path string) (dataset.Manifest, error) {
	rows, err := parquet.ReadFile[dataset.ManifestRow](path)
	if err != nil {
		return nil, fmt.Errorf("error reading parquet manifest: %w", err)
	}
	return dataset.Manifest(rows), nil
}
