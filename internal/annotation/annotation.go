package annotation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sargassum-watch/sargassum-dataset/internal/properties"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
	"go.uber.org/zap"
)

// ErrConfiguration marks input layout problems that make the whole run
// meaningless.
var ErrConfiguration = errors.New("configuration error")

const DateProperty = "date"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"20060102",
}

// Annotation is one hand-drawn polygon.
type Annotation struct {
	Geometry    orb.Geometry
	ClassLabel  string
	CaptureDate time.Time
	Source      string
}

// Group is one annotation file: every feature shares a class and date.
type Group struct {
	Path  string
	Class string
	Date  string
}

func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// ParseGroup extracts class and date from a "<class>-<date>.json" name.
func ParseGroup(path string) (Group, error) {
	base := filepath.Base(path)
	stem := strings.SplitN(base, ".", 2)[0]
	segments := strings.Split(stem, "-")
	if len(segments) < 2 || segments[properties.ClassSegmentIndex] == "" {
		return Group{}, fmt.Errorf("%w: annotation file name %q is not <class>-<date>", ErrConfiguration, base)
	}
	return Group{
		Path:  path,
		Class: segments[properties.ClassSegmentIndex],
		Date:  strings.Join(segments[properties.ClassSegmentIndex+1:], "-"),
	}, nil
}

// ListGroups returns the annotation files of dir in lexical order.
func ListGroups(dir string) ([]Group, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: annotation directory %s: %v", ErrConfiguration, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrConfiguration, dir)
	}

	var paths []string
	for _, pattern := range []string{"*.json", "*.geojson"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	groups := make([]Group, 0, len(paths))
	for _, path := range paths {
		group, err := ParseGroup(path)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// LoadDir reads every annotation file in dir. Files are read in lexical
// order and features keep their file order.
func LoadDir(dir string) ([]Annotation, error) {
	groups, err := ListGroups(dir)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no annotation files found in %s", ErrConfiguration, dir)
	}

	var annotations []Annotation
	for _, group := range groups {
		loaded, err := LoadGroup(group)
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, loaded...)
	}
	return annotations, nil
}

func LoadGroup(group Group) ([]Annotation, error) {
	data, err := os.ReadFile(group.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrConfiguration, group.Path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrConfiguration, group.Path, err)
	}

	annotations := make([]Annotation, 0, len(fc.Features))
	for i, feature := range fc.Features {
		switch feature.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			utils.Logger.Warn("skipping non polygonal feature",
				zap.String("file", group.Path), zap.Int("feature", i))
			continue
		}

		date, err := featureDate(feature, group)
		if err != nil {
			return nil, fmt.Errorf("%w: %s feature %d: %v", ErrConfiguration, group.Path, i, err)
		}

		annotations = append(annotations, Annotation{
			Geometry:    feature.Geometry,
			ClassLabel:  group.Class,
			CaptureDate: date,
			Source:      group.Path,
		})
	}
	return annotations, nil
}

func featureDate(feature *geojson.Feature, group Group) (time.Time, error) {
	switch v := feature.Properties[DateProperty].(type) {
	case string:
		return ParseDate(v)
	case float64:
		// epoch milliseconds, as exported by most web annotation tools
		return time.UnixMilli(int64(v)).UTC(), nil
	case nil:
		if group.Date == "" {
			return time.Time{}, fmt.Errorf("no %q property and no date in file name", DateProperty)
		}
		return ParseDate(group.Date)
	default:
		return time.Time{}, fmt.Errorf("unsupported %q property %v", DateProperty, v)
	}
}
