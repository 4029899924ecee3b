package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/sargassum-watch/sargassum-dataset/internal/annotation"
	"github.com/sargassum-watch/sargassum-dataset/internal/sentinel"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

var ErrAcquisition = errors.New("acquisition failed")

// Acquisition is the imagery fetched for one annotation. On failure every
// field is empty and Err is set.
type Acquisition struct {
	ImagePath       string
	SpacecraftName  string
	AzimuthAngle    string
	ZenithAngle     string
	AcquisitionTime string
	Err             error
}

func (a Acquisition) OK() bool {
	return a.Err == nil
}

func failed(err error) Acquisition {
	if !errors.Is(err, ErrAcquisition) {
		err = fmt.Errorf("%w: %w", ErrAcquisition, err)
	}
	return Acquisition{Err: err}
}

type Orchestrator struct {
	Backend    sentinel.ImageBackend
	HalfWidth  float64
	HalfHeight float64
	// Workers bounds concurrent fetches. Values below 2 fetch sequentially.
	Workers  int
	Progress bool
}

func NewOrchestrator(backend sentinel.ImageBackend, imageWidth, imageHeight float64, workers int, progress bool) *Orchestrator {
	return &Orchestrator{
		Backend:    backend,
		HalfWidth:  imageWidth / 2,
		HalfHeight: imageHeight / 2,
		Workers:    workers,
		Progress:   progress,
	}
}

// Acquire fetches one image per annotation. The result has the same length
// and order as annotations; failed items are logged and left empty.
func (o *Orchestrator) Acquire(ctx context.Context, annotations []annotation.Annotation) []Acquisition {
	results := make([]Acquisition, len(annotations))

	var bar *progressbar.ProgressBar
	if o.Progress {
		bar = progressbar.Default(int64(len(annotations)), "Acquiring images")
	} else {
		bar = progressbar.DefaultSilent(int64(len(annotations)), "Acquiring images")
	}

	if o.Workers < 2 {
		for i, ann := range annotations {
			results[i] = o.acquireOne(ctx, i, ann)
			bar.Add(1)
		}
		return results
	}

	var mu sync.Mutex
	wp := workerpool.New(o.Workers)
	for i, ann := range annotations {
		wp.Submit(func() {
			results[i] = o.acquireOne(ctx, i, ann)
			mu.Lock()
			bar.Add(1)
			mu.Unlock()
		})
	}
	wp.StopWait()

	return results
}

func (o *Orchestrator) acquireOne(ctx context.Context, index int, ann annotation.Annotation) (result Acquisition) {
	defer func() {
		if r := recover(); r != nil {
			result = failed(fmt.Errorf("backend panic: %v", r))
			o.logFailure(index, ann, result.Err)
		}
	}()

	if err := ctx.Err(); err != nil {
		result = failed(err)
		o.logFailure(index, ann, result.Err)
		return result
	}

	bbox := sentinel.BoundingBoxForGeometry(ann.Geometry, o.HalfWidth, o.HalfHeight)
	raster, err := o.Backend.Fetch(ctx, bbox.FeatureCollection(), ann.CaptureDate)
	if err != nil {
		result = failed(err)
		o.logFailure(index, ann, result.Err)
		return result
	}
	if raster == nil || raster.ImagePath == "" {
		result = failed(errors.New("unusable data: backend returned no image"))
		o.logFailure(index, ann, result.Err)
		return result
	}

	result = Acquisition{ImagePath: raster.ImagePath}
	if raster.Properties != nil {
		result.SpacecraftName = property(raster.Properties, sentinel.PropertySpacecraftName)
		result.AzimuthAngle = property(raster.Properties, sentinel.PropertySolarAzimuth)
		result.ZenithAngle = property(raster.Properties, sentinel.PropertySolarZenith)
		result.AcquisitionTime = property(raster.Properties, sentinel.PropertyTimeStart)
	}

	utils.Logger.Debug("acquired image",
		zap.Int("index", index),
		zap.String("image", result.ImagePath),
		zap.String("spacecraft", result.SpacecraftName),
	)
	return result
}

func (o *Orchestrator) logFailure(index int, ann annotation.Annotation, err error) {
	utils.Logger.Warn("failed to acquire image",
		zap.Int("index", index),
		zap.String("class", ann.ClassLabel),
		zap.String("date", ann.CaptureDate.Format("2006-01-02")),
		zap.Error(err),
	)
}

func property(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
