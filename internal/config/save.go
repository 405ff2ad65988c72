package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"gopkg.in/yaml.v3"
)

// sectionComments are written above the first key of each section.
var sectionComments = map[string]string{
	"Task":             "Project definitions (do not edit)",
	"video_sets":       "Annotation data set configuration (and individual video cropping parameters)",
	"start":            "Frame extraction parameters",
	"skeleton":         "Plotting configuration",
	"TrainingFraction": "Training, evaluation and analysis configuration",
	"cropping":         "Cropping parameters (for analysis and outlier frame detection)",
	"corner2move2":     "Refinement configuration (parameters from annotation dataset configuration also relevant in this stage)",
}

// Save writes cfg to w as a config document. Loading the output yields
// a config equal to cfg.
func Save(w io.Writer, cfg *core.ProjectConfig) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if doc.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(doc.Content); i += 2 {
			if c, ok := sectionComments[doc.Content[i].Value]; ok {
				doc.Content[i].HeadComment = c
			}
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return enc.Close()
}

// Marshal returns the document form of cfg.
func Marshal(cfg *core.ProjectConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile writes cfg to path. The file is replaced atomically so a
// failed write leaves the previous contents in place.
func SaveFile(path string, cfg *core.ProjectConfig) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}
	return writeFileAtomic(path, data, perm)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
