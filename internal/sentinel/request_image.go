package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sargassum-watch/sargassum-dataset/internal/cache"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrImageNotFound = errors.New("image not found")
	ErrUnauthorized  = errors.New("unauthorized access, check your client ID and secret")
	ErrEmptyArea     = errors.New("area of interest has no geometry")
)

const maxPixels = 2500

const evalscript = `
//VERSION=3
function setup() {
  return {
    input: ["B02", "B03", "B04", "B08", "B11"],
    output: {
      id: "default",
      bands: 5,
      sampleType: SampleType.FLOAT32,
    },
  }
}

function evaluatePixel(sample) {
  return [sample.B02, sample.B03, sample.B04, sample.B08, sample.B11];
}
`

type ClientConfig struct {
	// Credentials are client id / secret pairs, tried in order.
	Credentials [][2]string
	TokenURL    string
	ProcessURL  string
	CatalogURL  string
	Collection  string
	CacheDir    string
	// Resolution is the output pixel size in metres.
	Resolution float64
	// HTTPClient is used for token and API requests when set.
	HTTPClient *http.Client
}

// Scene is the catalog metadata of one acquisition.
type Scene struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	Datetime     time.Time `json:"datetime"`
	SunAzimuth   *float64  `json:"sun_azimuth,omitempty"`
	SunElevation *float64  `json:"sun_elevation,omitempty"`
}

// Properties converts the scene to the backend metadata keys.
func (s Scene) Properties() map[string]any {
	props := map[string]any{}
	if s.Platform != "" {
		props[PropertySpacecraftName] = s.Platform
	}
	if s.SunAzimuth != nil {
		props[PropertySolarAzimuth] = *s.SunAzimuth
	}
	if s.SunElevation != nil {
		props[PropertySolarZenith] = 90 - *s.SunElevation
	}
	if !s.Datetime.IsZero() {
		props[PropertyTimeStart] = s.Datetime.UnixMilli()
	}
	return props
}

// Client is an ImageBackend over the Sentinel Hub Catalog and Process APIs.
// Scene metadata and images are cached on disk under CacheDir.
type Client struct {
	cfg      ClientConfig
	clients  []*http.Client
	metadata *cache.FileCache[Scene]
	imageDir string
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if len(cfg.Credentials) == 0 || cfg.TokenURL == "" {
		return nil, fmt.Errorf("missing Sentinel Hub credentials or token URL")
	}
	if cfg.Resolution <= 0 {
		cfg.Resolution = 10
	}

	ctx := context.Background()
	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}

	clients := make([]*http.Client, 0, len(cfg.Credentials))
	for _, cred := range cfg.Credentials {
		config := &clientcredentials.Config{
			ClientID:     cred[0],
			ClientSecret: cred[1],
			TokenURL:     cfg.TokenURL,
		}
		clients = append(clients, config.Client(ctx))
	}

	return &Client{
		cfg:      cfg,
		clients:  clients,
		metadata: cache.NewFileCache[Scene](filepath.Join(cfg.CacheDir, "metadata")),
		imageDir: filepath.Join(cfg.CacheDir, "images"),
	}, nil
}

func calculatePixels(distance float64, resolution float64) int {
	pixels := distance * (111_000.0 / resolution)
	if pixels < 1 {
		return 1
	}
	if pixels > maxPixels {
		return maxPixels
	}
	return int(pixels)
}

func dayRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour*23 + time.Minute*59 + time.Second*59)
}

func (c *Client) Fetch(ctx context.Context, area *geojson.FeatureCollection, date time.Time) (*RasterResult, error) {
	if area == nil || len(area.Features) == 0 || area.Features[0].Geometry == nil {
		return nil, ErrEmptyArea
	}
	geometry := area.Features[0].Geometry
	bound := geometry.Bound()
	startDate, endDate := dayRange(date)

	key := c.metadata.GenerateKey(c.cfg.Collection, fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y()), startDate.Format("2006-01-02"))

	scene, ok := c.metadata.Get(key)
	if !ok {
		var err error
		scene, err = c.searchScene(ctx, bound, startDate, endDate)
		if err != nil {
			return nil, err
		}
		if err := c.metadata.Set(key, scene); err != nil {
			utils.Logger.Warn("failed to cache scene metadata", zap.String("key", key), zap.Error(err))
		}
	}

	imagePath := filepath.Join(c.imageDir, key+".tif")
	if _, err := os.Stat(imagePath); err != nil {
		imageBytes, err := c.requestImage(ctx, startDate, endDate, geometry)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(c.imageDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", c.imageDir, err)
		}
		if err := cache.WriteFileAtomic(imagePath, imageBytes); err != nil {
			return nil, fmt.Errorf("failed to write image file: %w", err)
		}
		utils.Logger.Debug("downloaded image", zap.String("path", imagePath), zap.String("scene", scene.ID))
	}

	return &RasterResult{
		ImagePath:  imagePath,
		Properties: scene.Properties(),
	}, nil
}

func (c *Client) searchScene(ctx context.Context, bound orb.Bound, startDate, endDate time.Time) (Scene, error) {
	requestPayload := map[string]interface{}{
		"bbox":        []float64{bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y()},
		"datetime":    fmt.Sprintf("%s/%s", startDate.Format(time.RFC3339), endDate.Format(time.RFC3339)),
		"collections": []string{c.cfg.Collection},
		"limit":       1,
		"sortby": []map[string]string{
			{"field": "properties.datetime", "direction": "desc"},
		},
	}

	responseContent, err := c.post(ctx, c.cfg.CatalogURL+"/search", requestPayload)
	if err != nil {
		return Scene{}, fmt.Errorf("catalog search failed: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(responseContent)
	if err != nil {
		return Scene{}, fmt.Errorf("failed to parse catalog response: %w", err)
	}
	if len(fc.Features) == 0 {
		return Scene{}, fmt.Errorf("%w: no %s acquisition on %s", ErrImageNotFound, c.cfg.Collection, startDate.Format("2006-01-02"))
	}

	return sceneFromFeature(fc.Features[0]), nil
}

func sceneFromFeature(f *geojson.Feature) Scene {
	scene := Scene{
		Platform: f.Properties.MustString("platform", ""),
	}
	if f.ID != nil {
		scene.ID = fmt.Sprint(f.ID)
	}
	if raw := f.Properties.MustString("datetime", ""); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			scene.Datetime = t.UTC()
		}
	}
	if v, ok := f.Properties["view:sun_azimuth"].(float64); ok {
		scene.SunAzimuth = &v
	}
	if v, ok := f.Properties["view:sun_elevation"].(float64); ok {
		scene.SunElevation = &v
	}
	return scene
}

func (c *Client) requestImage(ctx context.Context, startDate, endDate time.Time, geometry orb.Geometry) ([]byte, error) {
	bound := geometry.Bound()
	widthPixels := calculatePixels(bound.Max.X()-bound.Min.X(), c.cfg.Resolution)
	heightPixels := calculatePixels(bound.Max.Y()-bound.Min.Y(), c.cfg.Resolution)

	requestPayload := map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": map[string]interface{}{
				"geometry": geojson.NewGeometry(geometry),
				"properties": map[string]string{
					"crs": "http://www.opengis.net/def/crs/EPSG/0/4326",
				},
			},
			"data": []map[string]interface{}{
				{
					"dataFilter": map[string]interface{}{
						"timeRange": map[string]string{
							"from": startDate.Format(time.RFC3339),
							"to":   endDate.Format(time.RFC3339),
						},
					},
					"type": c.cfg.Collection,
				},
			},
		},
		"output": map[string]interface{}{
			"width":  widthPixels,
			"height": heightPixels,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/tiff",
					},
				},
			},
		},
		"evalscript": evalscript,
		"mosaicking": "mostRecent",
	}

	responseContent, err := c.post(ctx, c.cfg.ProcessURL, requestPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to request image: %w", err)
	}
	if len(responseContent) == 0 {
		return nil, ErrImageNotFound
	}
	return responseContent, nil
}

// post sends payload with each credential pair in turn, moving to the next
// pair only when the API rejects the credentials.
func (c *Client) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	err = ErrUnauthorized
	for i, httpClient := range c.clients {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
		if reqErr != nil {
			return nil, reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		response, doErr := httpClient.Do(req)
		if doErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var retrieveErr *oauth2.RetrieveError
			if errors.As(doErr, &retrieveErr) {
				utils.Logger.Warn("token request rejected", zap.Int("credential", i), zap.Error(doErr))
				continue
			}
			return nil, doErr
		}

		body, readErr := io.ReadAll(response.Body)
		response.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}

		switch response.StatusCode {
		case http.StatusOK:
			return body, nil
		case http.StatusUnauthorized, http.StatusForbidden:
			utils.Logger.Warn("credential rejected", zap.Int("credential", i), zap.Int("status", response.StatusCode))
			continue
		case http.StatusNotFound, http.StatusNoContent:
			return nil, ErrImageNotFound
		default:
			return nil, fmt.Errorf("unexpected status %d: %s", response.StatusCode, string(body))
		}
	}
	return nil, err
}
