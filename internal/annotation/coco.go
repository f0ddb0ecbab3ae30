package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"pose-fields/internal/keypoint"
	"pose-fields/pkg/geometry"
)

// Image is one entry of a COCO "images" list.
type Image struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Dataset is a COCO keypoint file grouped by image.
type Dataset struct {
	Images      []Image
	Annotations map[int64][]Annotation
}

type cocoFile struct {
	Images      []Image          `json:"images"`
	Annotations []cocoAnnotation `json:"annotations"`
}

type cocoAnnotation struct {
	ID           int64           `json:"id"`
	ImageID      int64           `json:"image_id"`
	Keypoints    []float64       `json:"keypoints"`
	BBox         []float64       `json:"bbox"`
	IsCrowd      int             `json:"iscrowd"`
	Segmentation json.RawMessage `json:"segmentation"`
}

// LoadCOCO reads a COCO keypoint annotation file.
func LoadCOCO(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}
	return ParseCOCO(data)
}

// ParseCOCO decodes COCO keypoint JSON. RLE segmentations are ignored and
// such annotations fall back to their bounding box.
func ParseCOCO(data []byte) (*Dataset, error) {
	var f cocoFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse annotations: %w", err)
	}

	ds := &Dataset{
		Images:      f.Images,
		Annotations: make(map[int64][]Annotation),
	}
	sort.Slice(ds.Images, func(i, j int) bool { return ds.Images[i].ID < ds.Images[j].ID })

	for _, ca := range f.Annotations {
		if len(ca.Keypoints)%3 != 0 {
			return nil, fmt.Errorf("annotation %d: keypoint list length %d is not a multiple of 3", ca.ID, len(ca.Keypoints))
		}

		ann := Annotation{
			ID:      ca.ID,
			ImageID: ca.ImageID,
			IsCrowd: ca.IsCrowd != 0,
		}
		ann.Keypoints = make(keypoint.Set, len(ca.Keypoints)/3)
		for i := range ann.Keypoints {
			ann.Keypoints[i] = keypoint.Keypoint{
				X:          ca.Keypoints[3*i],
				Y:          ca.Keypoints[3*i+1],
				Confidence: ca.Keypoints[3*i+2],
			}
		}
		if len(ca.BBox) == 4 {
			ann.BBox = geometry.NewRect(ca.BBox[0], ca.BBox[1], ca.BBox[2], ca.BBox[3])
		}

		// Polygon segmentations are a list of flat coordinate lists
		var polys [][]float64
		if len(ca.Segmentation) > 0 && json.Unmarshal(ca.Segmentation, &polys) == nil {
			for _, p := range polys {
				ann.Polygons = append(ann.Polygons, geometry.PolygonFromFlat(p))
			}
		}

		ds.Annotations[ca.ImageID] = append(ds.Annotations[ca.ImageID], ann)
	}

	return ds, nil
}
