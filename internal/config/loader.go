package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the project config file.
const ConfigFileName = "config.yaml"

// ConfigFileNameAlt is the alternate name of the project config file.
const ConfigFileNameAlt = "config.yml"

// ErrNoConfig is returned by LoadFromDir when the directory holds no
// project config file.
var ErrNoConfig = errors.New("no config.yaml or config.yml found")

var discardLogger = slog.New(slog.DiscardHandler)

// yaml.v3 reports syntax errors as "yaml: line N: message".
var yamlLineRe = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// Load reads a project config document from r and validates it.
//
// On success the returned config has every optional field populated,
// either from the document or from its default. On failure the error is
// a *ValidationError listing every problem found.
func Load(r io.Reader, opts LoadOptions) (*LoadResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger
	}
	policy := opts.Policy
	if policy == "" {
		policy = core.DefaultPolicy
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sourceName(opts.Source), err)
	}

	doc, perr := parseDocument(data, opts.Source)
	if perr != nil {
		return nil, &ValidationError{File: opts.Source, Problems: []error{perr}}
	}

	d := newDecoder(opts.Source, policy)
	d.index(doc)
	d.decodeFields()
	d.checkCropping()
	if err := d.checkConstraints(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", sourceName(opts.Source), err)
	}
	d.checkReferences()

	if len(d.problems) > 0 {
		logger.Debug("config invalid",
			slog.String("source", opts.Source),
			slog.Int("problems", len(d.problems)))
		return nil, &ValidationError{File: opts.Source, Problems: d.problems}
	}

	logger.Debug("config loaded",
		slog.String("source", opts.Source),
		slog.String("policy", string(policy)),
		slog.Int("bodyparts", len(d.cfg.BodyParts)),
		slog.Int("skeleton_edges", len(d.cfg.Skeleton)),
		slog.Int("warnings", len(d.warnings)))

	return &LoadResult{Config: d.cfg, Warnings: d.warnings, Source: opts.Source}, nil
}

// LoadBytes is Load over an in-memory document.
func LoadBytes(data []byte, opts LoadOptions) (*LoadResult, error) {
	return Load(bytes.NewReader(data), opts)
}

// LoadFile loads the document at path. opts.Source defaults to path.
func LoadFile(path string, opts LoadOptions) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if opts.Source == "" {
		opts.Source = path
	}
	return Load(f, opts)
}

// LoadFromDir loads config.yaml (or config.yml) from dir.
// It returns ErrNoConfig if neither exists.
func LoadFromDir(dir string, opts LoadOptions) (*LoadResult, error) {
	path := FindConfigFile(dir)
	if path == "" {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoConfig)
	}
	return LoadFile(path, opts)
}

// FindConfigFile returns the project config file in dir, or "" if none.
func FindConfigFile(dir string) string {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}

	ymlPath := filepath.Join(dir, ConfigFileNameAlt)
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}

	return ""
}

// FindProjectRoot walks up from startDir to the nearest directory
// containing config.yaml or config.yml.
// Returns empty string if not found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if FindConfigFile(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// parseDocument parses data and returns its top-level mapping node.
func parseDocument(data []byte, file string) (*yaml.Node, *ParseError) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, newParseError(file, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, &ParseError{File: file, Message: "document is empty"}
	}

	doc := deref(root.Content[0])
	if doc.Kind != yaml.MappingNode {
		if isNull(doc) {
			return nil, &ParseError{File: file, Line: doc.Line, Message: "document is empty"}
		}
		return nil, &ParseError{
			File:    file,
			Line:    doc.Line,
			Message: "top level must be a mapping, got " + describeNode(doc),
		}
	}
	return doc, nil
}

func newParseError(file string, err error) *ParseError {
	pe := &ParseError{File: file, Message: err.Error(), Err: err}
	msg := strings.TrimSpace(err.Error())
	if m := yamlLineRe.FindStringSubmatch(msg); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
		pe.Message = m[2]
	} else {
		pe.Message = strings.TrimPrefix(msg, "yaml: ")
	}
	return pe
}

func sourceName(s string) string {
	if s == "" {
		return "document"
	}
	return s
}
