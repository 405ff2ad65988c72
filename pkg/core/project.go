package core

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is a DeepLabCut project configuration document.
//
// Field order in this struct is the canonical key order used when the
// document is written back out. Nested groups are inlined so the YAML
// stays flat, the way the pipeline expects it.
type ProjectConfig struct {
	// Project definitions
	Task        string `yaml:"Task" json:"task" validate:"required"`
	Scorer      string `yaml:"scorer" json:"scorer" validate:"required"`
	Date        string `yaml:"date" json:"date" validate:"required"`
	ProjectPath string `yaml:"project_path" json:"project_path" validate:"required"`

	// Annotation data set configuration
	VideoSets map[string]VideoSet `yaml:"video_sets" json:"video_sets"`
	BodyParts []string            `yaml:"bodyparts" json:"bodyparts" validate:"required,min=1,dive,required"`

	FrameSelection `yaml:",inline"`
	Plotting       `yaml:",inline"`
	Training       `yaml:",inline"`
	Cropping       `yaml:",inline"`
	Refinement     `yaml:",inline"`

	// Extra keeps keys this schema does not model so that rewriting the
	// document does not drop them.
	Extra map[string]any `yaml:",inline" json:"extra,omitempty"`
}

// FrameSelection controls frame extraction for labeling.
type FrameSelection struct {
	Start         float64 `yaml:"start" json:"start" validate:"gte=0,lte=1"`
	Stop          float64 `yaml:"stop" json:"stop" validate:"gte=0,lte=1,gtefield=Start"`
	NumFramesPick int     `yaml:"numframes2pick" json:"numframes2pick" validate:"gte=0"`
}

// Plotting holds the visualization parameters.
type Plotting struct {
	Skeleton      []Edge  `yaml:"skeleton" json:"skeleton"`
	SkeletonColor string  `yaml:"skeleton_color" json:"skeleton_color"`
	PCutoff       float64 `yaml:"pcutoff" json:"pcutoff" validate:"gte=0,lte=1"`
	DotSize       int     `yaml:"dotsize" json:"dotsize" validate:"gt=0"`
	AlphaValue    float64 `yaml:"alphavalue" json:"alphavalue" validate:"gte=0,lte=1"`
	Colormap      string  `yaml:"colormap" json:"colormap"`
}

// Training holds training, evaluation and analysis parameters.
type Training struct {
	TrainingFraction []float64     `yaml:"TrainingFraction" json:"training_fraction" validate:"required,min=1,dive,gt=0,lte=1"`
	Iteration        int           `yaml:"iteration" json:"iteration" validate:"gte=0"`
	NetType          string        `yaml:"default_net_type" json:"default_net_type"`
	Augmenter        string        `yaml:"default_augmenter" json:"default_augmenter"`
	SnapshotIndex    SnapshotIndex `yaml:"snapshotindex" json:"snapshotindex"`
	BatchSize        int           `yaml:"batch_size" json:"batch_size" validate:"gte=1"`
}

// Cropping holds the cropping bounds used for analysis and outlier
// frame extraction. Bounds are only enforced when Enabled is set.
type Cropping struct {
	Enabled bool `yaml:"cropping" json:"cropping"`
	X1      int  `yaml:"x1" json:"x1"`
	X2      int  `yaml:"x2" json:"x2"`
	Y1      int  `yaml:"y1" json:"y1"`
	Y2      int  `yaml:"y2" json:"y2"`
}

// Refinement holds the label refinement parameters.
type Refinement struct {
	Corner2Move2 [2]int `yaml:"corner2move2,flow" json:"corner2move2"`
	Move2Corner  bool   `yaml:"move2corner" json:"move2corner"`
}

// HasSkeletonEdges reports whether any skeleton edges are declared.
func (p *Plotting) HasSkeletonEdges() bool {
	return len(p.Skeleton) > 0
}

// SkeletonNodes returns every distinct name referenced by the skeleton,
// in order of first appearance.
func (p *Plotting) SkeletonNodes() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range p.Skeleton {
		for _, n := range e {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// BodyPartIndex returns a set of declared body part names.
func (c *ProjectConfig) BodyPartIndex() map[string]bool {
	idx := make(map[string]bool, len(c.BodyParts))
	for _, bp := range c.BodyParts {
		idx[bp] = true
	}
	return idx
}

// Edge is a skeleton connection between two body parts.
type Edge [2]string

// String returns "a - b".
func (e Edge) String() string {
	return e[0] + " - " + e[1]
}

// VideoSet holds the per-video annotation settings.
type VideoSet struct {
	Crop CropBox `yaml:"crop" json:"crop"`
}

// CropBox is a rectangular crop region in pixels.
// It is stored in the document as "x1, x2, y1, y2".
// A valid box has non-negative origin and X1 < X2, Y1 < Y2.
type CropBox struct {
	X1 int `json:"x1"`
	X2 int `json:"x2"`
	Y1 int `json:"y1"`
	Y2 int `json:"y2"`
}

// String formats the crop box the way the document stores it.
func (b CropBox) String() string {
	return fmt.Sprintf("%d, %d, %d, %d", b.X1, b.X2, b.Y1, b.Y2)
}

// Valid reports whether the box has positive area and a non-negative origin.
func (b CropBox) Valid() bool {
	return b.X1 >= 0 && b.Y1 >= 0 && b.X1 < b.X2 && b.Y1 < b.Y2
}

// ParseCropBox parses "x1, x2, y1, y2".
func ParseCropBox(s string) (CropBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return CropBox{}, fmt.Errorf("crop %q must have four comma-separated integers", s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return CropBox{}, fmt.Errorf("crop %q: %q is not an integer", s, strings.TrimSpace(p))
		}
		vals[i] = v
	}
	return CropBox{X1: vals[0], X2: vals[1], Y1: vals[2], Y2: vals[3]}, nil
}

// MarshalYAML implements yaml.Marshaler.
func (b CropBox) MarshalYAML() (any, error) {
	return b.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *CropBox) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCropBox(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// SnapshotIndex selects which training snapshot to evaluate.
// A value of -1 means the last snapshot; All selects every snapshot.
type SnapshotIndex struct {
	Index int
	All   bool
}

// SnapshotAll is the document spelling for evaluating every snapshot.
const SnapshotAll = "all"

// String returns the document form of the index.
func (s SnapshotIndex) String() string {
	if s.All {
		return SnapshotAll
	}
	return strconv.Itoa(s.Index)
}

// MarshalYAML implements yaml.Marshaler.
func (s SnapshotIndex) MarshalYAML() (any, error) {
	if s.All {
		return SnapshotAll, nil
	}
	return s.Index, nil
}

// MarshalJSON implements json.Marshaler.
func (s SnapshotIndex) MarshalJSON() ([]byte, error) {
	if s.All {
		return []byte(strconv.Quote(SnapshotAll)), nil
	}
	return []byte(strconv.Itoa(s.Index)), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SnapshotIndex) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" && n.Value == SnapshotAll {
		*s = SnapshotIndex{All: true}
		return nil
	}
	var i int
	if err := n.Decode(&i); err != nil {
		return fmt.Errorf("snapshotindex must be an integer or %q", SnapshotAll)
	}
	*s = SnapshotIndex{Index: i}
	return nil
}
