package delivery

import (
	"time"

	"github.com/sargassum-watch/sargassum-dataset/internal/annotation"
	"github.com/sargassum-watch/sargassum-dataset/internal/utils"
)

type AnnotationGroupInfo struct {
	Path     string
	Class    string
	Features int
	// Dates are the distinct capture dates, oldest first.
	Dates []time.Time
}

func ListAnnotations(rawDir string) ([]AnnotationGroupInfo, error) {
	groups, err := annotation.ListGroups(rawDir)
	if err != nil {
		return nil, err
	}

	infos := make([]AnnotationGroupInfo, 0, len(groups))
	for _, group := range groups {
		annotations, err := annotation.LoadGroup(group)
		if err != nil {
			return nil, err
		}

		dates := map[time.Time]struct{}{}
		for _, ann := range annotations {
			dates[ann.CaptureDate] = struct{}{}
		}
		infos = append(infos, AnnotationGroupInfo{
			Path:     group.Path,
			Class:    group.Class,
			Features: len(annotations),
			Dates:    utils.GetSortedKeys(dates, true),
		})
	}
	return infos, nil
}
