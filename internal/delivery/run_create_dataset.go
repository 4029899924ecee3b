package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sargassum-watch/sargassum-dataset/internal/annotation"
	"github.com/sargassum-watch/sargassum-dataset/internal/dataset"
	"github.com/sargassum-watch/sargassum-dataset/internal/mask"
	"github.com/sargassum-watch/sargassum-dataset/internal/properties"
	"github.com/sargassum-watch/sargassum-dataset/internal/sentinel"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
	"github.com/sargassum-watch/sargassum-dataset/output"
	"go.uber.org/zap"
)

const (
	ManifestGeoJSON = "manifest.geojson"
	ManifestCSV     = "manifest.csv"
	ManifestParquet = "manifest.parquet"
	SummaryFile     = "summary.yaml"
)

// Notifier reports the outcome of a run.
type Notifier interface {
	Success(ctx context.Context, message string) error
	Warning(ctx context.Context, message string) error
	Error(ctx context.Context, message string) error
}

type nopNotifier struct{}

func (nopNotifier) Success(context.Context, string) error { return nil }
func (nopNotifier) Warning(context.Context, string) error { return nil }
func (nopNotifier) Error(context.Context, string) error   { return nil }

// DatasetRun holds what one dataset build needs.
type DatasetRun struct {
	Config   *properties.Config
	Backend  sentinel.ImageBackend
	Tiles    sentinel.TileReader
	Notifier Notifier
}

// CreateDataset loads the annotations, acquires an image per annotation,
// rasterizes the polygons into masks and writes the manifest. Item failures
// degrade their row; only setup and manifest write failures are returned.
func (r *DatasetRun) CreateDataset(ctx context.Context) (*output.Summary, error) {
	cfg := r.Config
	notifier := r.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	summary, err := r.createDataset(ctx)
	if err != nil {
		utils.Logger.Error("dataset run failed", zap.Error(err))
		if notifyErr := notifier.Error(ctx, err.Error()); notifyErr != nil {
			utils.Logger.Warn("failed to send notification", zap.Error(notifyErr))
		}
		return nil, err
	}

	var notifyErr error
	if summary.Annotations > 0 && summary.Acquired == 0 {
		utils.Logger.Warn("every acquisition failed", zap.String("root", cfg.RootPath))
		notifyErr = notifier.Warning(ctx, "every acquisition failed\n"+summary.String())
	} else {
		notifyErr = notifier.Success(ctx, summary.String())
	}
	if notifyErr != nil {
		utils.Logger.Warn("failed to send notification", zap.Error(notifyErr))
	}
	return summary, nil
}

func (r *DatasetRun) createDataset(ctx context.Context) (*output.Summary, error) {
	cfg := r.Config
	summary := output.NewSummary(cfg.RootPath, cfg.MaskFormat, time.Now().UTC())

	annotations, err := annotation.LoadDir(cfg.RawDir)
	if err != nil {
		return nil, err
	}
	utils.Logger.Info("loaded annotations", zap.Int("count", len(annotations)), zap.String("dir", cfg.RawDir))

	orchestrator := dataset.NewOrchestrator(r.Backend, cfg.ImageWidth, cfg.ImageHeight, cfg.Workers, cfg.Progress)
	acquisitions := orchestrator.Acquire(ctx, annotations)

	masks, saved := r.rasterize(annotations, acquisitions)

	manifest, err := dataset.Assemble(annotations, acquisitions, masks)
	if err != nil {
		return nil, err
	}

	outputs, err := writeManifest(manifest, cfg.ManifestDir())
	if err != nil {
		return nil, err
	}

	summary.Count(manifest)
	summary.Outputs = outputs
	if common := mask.CropToMinimum(saved); len(common) > 0 {
		h, w := common[0].Shape()
		summary.MaskShape = []int{h, w}
	}
	summary.FinishedAt = time.Now().UTC()

	summaryPath := filepath.Join(cfg.ManifestDir(), SummaryFile)
	if err := output.CreateSummary(summary, summaryPath); err != nil {
		return nil, err
	}

	utils.Logger.Info("dataset created",
		zap.String("run", summary.RunID),
		zap.Int("annotations", summary.Annotations),
		zap.Int("acquired", summary.Acquired),
		zap.Int("masks", summary.Masked),
	)
	return summary, nil
}

// rasterize burns each acquired annotation into a mask and saves it. A
// failure skips only that item's mask.
func (r *DatasetRun) rasterize(annotations []annotation.Annotation, acquisitions []dataset.Acquisition) ([]dataset.MaskResult, []*mask.Mask) {
	cfg := r.Config
	rasterizer := mask.NewRasterizer(cfg.MaskSize)
	store := mask.NewStore(cfg.MaskDir(), cfg.MaskFormat)

	results := make([]dataset.MaskResult, len(annotations))
	var saved []*mask.Mask
	for i, acq := range acquisitions {
		if !acq.OK() {
			continue
		}

		m, err := r.rasterizeOne(rasterizer, acq.ImagePath, annotations[i])
		if err != nil {
			utils.Logger.Warn("failed to rasterize annotation", zap.Int("index", i), zap.String("image", acq.ImagePath), zap.Error(err))
			results[i] = dataset.MaskResult{Err: err}
			continue
		}

		rasterID := mask.RasterID(acq.ImagePath)
		path, err := store.Save(rasterID, m)
		if err != nil {
			utils.Logger.Warn("failed to save mask", zap.Int("index", i), zap.String("raster", rasterID), zap.Error(err))
			results[i] = dataset.MaskResult{Err: err}
			continue
		}
		results[i] = dataset.MaskResult{Path: path}
		saved = append(saved, m)

		if cfg.MaskPreview {
			if err := writePreview(cfg.PreviewDir(), rasterID, m); err != nil {
				utils.Logger.Warn("failed to create mask preview", zap.String("raster", rasterID), zap.Error(err))
			}
		}
	}
	return results, saved
}

func (r *DatasetRun) rasterizeOne(rasterizer *mask.Rasterizer, imagePath string, ann annotation.Annotation) (*mask.Mask, error) {
	tile, err := r.Tiles.ReadTile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open tile %s: %v", mask.ErrRasterization, imagePath, err)
	}
	return rasterizer.Rasterize(tile, ann.Geometry)
}

func writePreview(dir, rasterID string, m *mask.Mask) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return output.CreateMaskPreview(m, filepath.Join(dir, rasterID+".png"))
}

func writeManifest(manifest dataset.Manifest, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create manifest directory: %w", err)
	}

	writers := []struct {
		name  string
		write func(dataset.Manifest, string) error
	}{
		{ManifestGeoJSON, output.CreateManifestGeoJSON},
		{ManifestCSV, output.CreateManifestCSV},
		{ManifestParquet, output.CreateManifestParquet},
	}

	outputs := make([]string, 0, len(writers))
	for _, w := range writers {
		path := filepath.Join(dir, w.name)
		if err := w.write(manifest, path); err != nil {
			return nil, err
		}
		outputs = append(outputs, path)
	}
	return outputs, nil
}
