package output

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sargassum-watch/sargassum-dataset/internal/dataset"
	"gopkg.in/yaml.v3"
)

type Failure struct {
	Index int    `yaml:"index"`
	Class string `yaml:"class"`
	Date  string `yaml:"date"`
	Stage string `yaml:"stage"`
	Error string `yaml:"error"`
}

// Summary describes one dataset run.
type Summary struct {
	RunID                 string    `yaml:"run_id"`
	StartedAt             time.Time `yaml:"started_at"`
	FinishedAt            time.Time `yaml:"finished_at"`
	Root                  string    `yaml:"root"`
	CRS                   string    `yaml:"crs"`
	MaskFormat            string    `yaml:"mask_format"`
	Annotations           int       `yaml:"annotations"`
	Acquired              int       `yaml:"acquired"`
	AcquisitionFailures   int       `yaml:"acquisition_failures"`
	Masked                int       `yaml:"masked"`
	RasterizationFailures int       `yaml:"rasterization_failures"`
	// MaskShape is the common (height, width) all masks can be cropped to.
	MaskShape []int     `yaml:"mask_shape,flow,omitempty"`
	Outputs   []string  `yaml:"outputs,omitempty"`
	Failures  []Failure `yaml:"failures,omitempty"`
}

func NewSummary(root, maskFormat string, startedAt time.Time) *Summary {
	return &Summary{
		RunID:      uuid.New().String(),
		StartedAt:  startedAt,
		Root:       root,
		CRS:        "EPSG:4326",
		MaskFormat: maskFormat,
	}
}

// Count fills the counters and failure list from the manifest.
func (s *Summary) Count(manifest dataset.Manifest) {
	s.Annotations = len(manifest)
	s.Acquired = 0
	s.AcquisitionFailures = 0
	s.Masked = 0
	s.RasterizationFailures = 0
	s.Failures = nil

	for i, row := range manifest {
		if row.AcquisitionError != "" {
			s.AcquisitionFailures++
			s.Failures = append(s.Failures, Failure{Index: i, Class: row.Class, Date: row.Date, Stage: "acquisition", Error: row.AcquisitionError})
		}
		if row.MaskError != "" {
			s.RasterizationFailures++
			s.Failures = append(s.Failures, Failure{Index: i, Class: row.Class, Date: row.Date, Stage: "rasterization", Error: row.MaskError})
		}
	}
	s.Acquired = manifest.Acquired()
	s.Masked = manifest.Masked()
}

func (s *Summary) String() string {
	return fmt.Sprintf("run %s: %d annotations, %d acquired, %d masks, %d acquisition failures, %d rasterization failures",
		s.RunID, s.Annotations, s.Acquired, s.Masked, s.AcquisitionFailures, s.RasterizationFailures)
}

func CreateSummary(summary *Summary, outputPath string) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var summary Summary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return &summary, nil
}
