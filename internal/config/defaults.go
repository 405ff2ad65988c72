package config

import "github.com/leapstack-labs/posecfg/pkg/core"

// Default configuration values, matching the DeepLabCut project template.
const (
	DefaultStart         = 0.0
	DefaultStop          = 1.0
	DefaultSkeletonColor = "black"
	DefaultPCutoff       = 0.6
	DefaultDotSize       = 12
	DefaultAlphaValue    = 0.7
	DefaultColormap      = "jet"
	DefaultNetType       = "resnet_50"
	DefaultAugmenter     = "default"
	DefaultSnapshotIndex = -1
	DefaultBatchSize     = 8
	DefaultCropX1        = 0
	DefaultCropX2        = 640
	DefaultCropY1        = 277
	DefaultCropY2        = 624
	DefaultCornerOffset  = 50
	DefaultMove2Corner   = true
)

// Defaults returns a ProjectConfig with every optional field set to its
// default value. Required fields are left empty.
func Defaults() *core.ProjectConfig {
	cfg := &core.ProjectConfig{
		VideoSets: map[string]core.VideoSet{},
		BodyParts: []string{},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills optional fields that hold their zero value.
// The loader does not call this: it starts from Defaults and overwrites
// what the document sets, so explicit zeros survive.
func ApplyDefaults(c *core.ProjectConfig) {
	if c == nil {
		return
	}
	if c.VideoSets == nil {
		c.VideoSets = map[string]core.VideoSet{}
	}
	if c.Skeleton == nil {
		c.Skeleton = []core.Edge{}
	}
	if c.TrainingFraction == nil {
		c.TrainingFraction = []float64{}
	}
	if c.Stop == 0 && c.Start == 0 {
		c.Stop = DefaultStop
	}
	if c.SkeletonColor == "" {
		c.SkeletonColor = DefaultSkeletonColor
	}
	if c.PCutoff == 0 {
		c.PCutoff = DefaultPCutoff
	}
	if c.DotSize == 0 {
		c.DotSize = DefaultDotSize
	}
	if c.AlphaValue == 0 {
		c.AlphaValue = DefaultAlphaValue
	}
	if c.Colormap == "" {
		c.Colormap = DefaultColormap
	}
	if c.NetType == "" {
		c.NetType = DefaultNetType
	}
	if c.Augmenter == "" {
		c.Augmenter = DefaultAugmenter
	}
	if c.SnapshotIndex == (core.SnapshotIndex{}) {
		c.SnapshotIndex = core.SnapshotIndex{Index: DefaultSnapshotIndex}
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Cropping == (core.Cropping{}) {
		c.Cropping = core.Cropping{X1: DefaultCropX1, X2: DefaultCropX2, Y1: DefaultCropY1, Y2: DefaultCropY2}
	}
	if c.Corner2Move2 == [2]int{} {
		c.Corner2Move2 = [2]int{DefaultCornerOffset, DefaultCornerOffset}
		c.Move2Corner = DefaultMove2Corner
	}
}

// NewProject returns a config for a fresh project with defaults applied,
// the way `posecfg init` creates one.
func NewProject(task, scorer, date, projectPath string, bodyParts []string) *core.ProjectConfig {
	cfg := Defaults()
	cfg.Task = task
	cfg.Scorer = scorer
	cfg.Date = date
	cfg.ProjectPath = projectPath
	cfg.BodyParts = append([]string{}, bodyParts...)
	cfg.NumFramesPick = 20
	cfg.TrainingFraction = []float64{0.95}
	return cfg
}
