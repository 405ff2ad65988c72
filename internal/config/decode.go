package config

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/posecfg/pkg/core"
	"gopkg.in/yaml.v3"
)

// YAML core schema short tags.
const (
	tagStr       = "!!str"
	tagInt       = "!!int"
	tagFloat     = "!!float"
	tagBool      = "!!bool"
	tagNull      = "!!null"
	tagTimestamp = "!!timestamp"
)

// knownKeys lists every top-level key the schema models.
var knownKeys = map[string]bool{
	"Task": true, "scorer": true, "date": true, "project_path": true,
	"video_sets": true, "bodyparts": true,
	"start": true, "stop": true, "numframes2pick": true,
	"skeleton": true, "skeleton_color": true, "pcutoff": true, "dotsize": true,
	"alphavalue": true, "colormap": true,
	"TrainingFraction": true, "iteration": true, "default_net_type": true,
	"default_augmenter": true, "snapshotindex": true, "batch_size": true,
	"cropping": true, "x1": true, "x2": true, "y1": true, "y2": true,
	"corner2move2": true, "move2corner": true,
}

// decoder walks a parsed document and fills a ProjectConfig, recording
// every problem instead of stopping at the first one.
type decoder struct {
	file   string
	policy core.Policy
	cfg    *core.ProjectConfig

	keys   map[string]*yaml.Node // top-level key nodes
	values map[string]*yaml.Node // top-level value nodes

	// bodyparts decoded as a list; names that failed are left out
	haveBodyParts bool

	// skeleton endpoint nodes and document positions, parallel to cfg.Skeleton
	edgeNodes [][2]*yaml.Node
	edgeIndex []int

	problems []error
	warnings []Warning
	failed   map[string]bool // keys that already have a problem
}

func newDecoder(file string, policy core.Policy) *decoder {
	return &decoder{
		file:   file,
		policy: policy,
		cfg:    Defaults(),
		keys:   make(map[string]*yaml.Node),
		values: make(map[string]*yaml.Node),
		failed: make(map[string]bool),
	}
}

func (d *decoder) fail(key string, err error) {
	d.failed[key] = true
	d.problems = append(d.problems, err)
}

func (d *decoder) mismatch(field, key string, n *yaml.Node, expected string) {
	d.fail(key, &TypeMismatchError{
		File:     d.file,
		Field:    field,
		Line:     n.Line,
		Column:   n.Column,
		Expected: expected,
		Got:      describeNode(n),
	})
}

func (d *decoder) outOfRange(field, key string, n *yaml.Node, msg string) {
	d.fail(key, &RangeError{
		File:    d.file,
		Field:   field,
		Line:    n.Line,
		Column:  n.Column,
		Message: msg,
	})
}

// index records the top-level keys of the document mapping.
func (d *decoder) index(doc *yaml.Node) {
	for i := 0; i+1 < len(doc.Content); i += 2 {
		k, v := doc.Content[i], deref(doc.Content[i+1])

		if k.Kind != yaml.ScalarNode {
			d.mismatch("document", "", k, "string key")
			continue
		}
		if first, dup := d.keys[k.Value]; dup {
			d.fail(k.Value, &DuplicateNameError{
				File:      d.file,
				Field:     "document",
				Name:      k.Value,
				Line:      k.Line,
				Column:    k.Column,
				FirstLine: first.Line,
			})
			continue
		}
		d.keys[k.Value] = k
		d.values[k.Value] = v

		if !knownKeys[k.Value] {
			var extra any
			if err := v.Decode(&extra); err != nil {
				d.mismatch(k.Value, k.Value, v, "YAML value")
				continue
			}
			if d.cfg.Extra == nil {
				d.cfg.Extra = make(map[string]any)
			}
			d.cfg.Extra[k.Value] = extra
			d.warnings = append(d.warnings, Warning{
				Code:    WarnUnknownKey,
				Field:   k.Value,
				Line:    k.Line,
				Column:  k.Column,
				Message: fmt.Sprintf("unknown key %q is not validated and is kept as-is", k.Value),
			})
		}
	}
}

// lookup returns the value node for key. It reports a MissingFieldError
// for required keys that are absent or null. Optional null values are
// treated as absent.
func (d *decoder) lookup(key string, required bool) (*yaml.Node, bool) {
	v, ok := d.values[key]
	if !ok {
		if required {
			d.fail(key, &MissingFieldError{File: d.file, Field: key})
		}
		return nil, false
	}
	if isNull(v) {
		if required {
			d.fail(key, &MissingFieldError{File: d.file, Field: key, Line: d.keys[key].Line})
		}
		return nil, false
	}
	return v, true
}

// decodeFields decodes every modeled key in canonical order.
func (d *decoder) decodeFields() {
	c := d.cfg

	d.str("Task", &c.Task, true)
	d.str("scorer", &c.Scorer, true)
	d.str("date", &c.Date, true)
	d.str("project_path", &c.ProjectPath, true)
	d.videoSets()
	d.bodyParts()

	d.float("start", &c.Start)
	d.float("stop", &c.Stop)
	d.nonNegInt("numframes2pick", &c.NumFramesPick, true)

	d.skeleton()
	d.str("skeleton_color", &c.SkeletonColor, false)
	d.float("pcutoff", &c.PCutoff)
	d.integer("dotsize", &c.DotSize, false)
	d.float("alphavalue", &c.AlphaValue)
	d.str("colormap", &c.Colormap, false)

	d.floatList("TrainingFraction", &c.TrainingFraction)
	d.nonNegInt("iteration", &c.Iteration, true)
	d.str("default_net_type", &c.NetType, false)
	d.str("default_augmenter", &c.Augmenter, false)
	d.snapshotIndex()
	d.integer("batch_size", &c.BatchSize, false)

	d.boolean("cropping", &c.Cropping.Enabled)
	d.integer("x1", &c.Cropping.X1, false)
	d.integer("x2", &c.Cropping.X2, false)
	d.integer("y1", &c.Cropping.Y1, false)
	d.integer("y2", &c.Cropping.Y2, false)

	d.intPair("corner2move2", &c.Corner2Move2)
	d.boolean("move2corner", &c.Move2Corner)
}

func (d *decoder) str(key string, dst *string, required bool) {
	v, ok := d.lookup(key, required)
	if !ok {
		return
	}
	if v.Kind != yaml.ScalarNode || (v.ShortTag() != tagStr && v.ShortTag() != tagTimestamp) {
		d.mismatch(key, key, v, "string")
		return
	}
	*dst = v.Value
}

func (d *decoder) integer(key string, dst *int, required bool) {
	v, ok := d.lookup(key, required)
	if !ok {
		return
	}
	if n, ok := d.scalarInt(key, key, v, "integer"); ok {
		*dst = n
	}
}

func (d *decoder) nonNegInt(key string, dst *int, required bool) {
	v, ok := d.lookup(key, required)
	if !ok {
		return
	}
	n, ok := d.scalarInt(key, key, v, "non-negative integer")
	if !ok {
		return
	}
	if n < 0 {
		d.mismatch(key, key, v, "non-negative integer")
		return
	}
	*dst = n
}

func (d *decoder) scalarInt(field, key string, v *yaml.Node, expected string) (int, bool) {
	if v.Kind != yaml.ScalarNode || v.ShortTag() != tagInt {
		d.mismatch(field, key, v, expected)
		return 0, false
	}
	var n int
	if err := v.Decode(&n); err != nil {
		d.mismatch(field, key, v, expected)
		return 0, false
	}
	return n, true
}

func (d *decoder) float(key string, dst *float64) {
	v, ok := d.lookup(key, false)
	if !ok {
		return
	}
	if f, ok := d.scalarFloat(key, key, v); ok {
		*dst = f
	}
}

func (d *decoder) scalarFloat(field, key string, v *yaml.Node) (float64, bool) {
	if v.Kind != yaml.ScalarNode || (v.ShortTag() != tagFloat && v.ShortTag() != tagInt) {
		d.mismatch(field, key, v, "number")
		return 0, false
	}
	var f float64
	if err := v.Decode(&f); err != nil {
		d.mismatch(field, key, v, "number")
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		d.outOfRange(field, key, v, "must be a finite number")
		return 0, false
	}
	return f, true
}

func (d *decoder) boolean(key string, dst *bool) {
	v, ok := d.lookup(key, false)
	if !ok {
		return
	}
	if v.Kind != yaml.ScalarNode || v.ShortTag() != tagBool {
		d.mismatch(key, key, v, "boolean")
		return
	}
	var b bool
	if err := v.Decode(&b); err != nil {
		d.mismatch(key, key, v, "boolean")
		return
	}
	*dst = b
}

func (d *decoder) floatList(key string, dst *[]float64) {
	v, ok := d.lookup(key, true)
	if !ok {
		return
	}
	if v.Kind != yaml.SequenceNode {
		d.mismatch(key, key, v, "list of numbers")
		return
	}
	out := make([]float64, 0, len(v.Content))
	for i, item := range v.Content {
		f, ok := d.scalarFloat(fmt.Sprintf("%s[%d]", key, i), key, deref(item))
		if !ok {
			continue
		}
		out = append(out, f)
	}
	if !d.failed[key] {
		*dst = out
	}
}

func (d *decoder) intPair(key string, dst *[2]int) {
	v, ok := d.lookup(key, false)
	if !ok {
		return
	}
	if v.Kind != yaml.SequenceNode || len(v.Content) != 2 {
		d.mismatch(key, key, v, "list of two integers")
		return
	}
	var out [2]int
	for i, item := range v.Content {
		n, ok := d.scalarInt(fmt.Sprintf("%s[%d]", key, i), key, deref(item), "integer")
		if !ok {
			return
		}
		out[i] = n
	}
	*dst = out
}

func (d *decoder) snapshotIndex() {
	const key = "snapshotindex"
	v, ok := d.lookup(key, false)
	if !ok {
		return
	}
	if v.Kind == yaml.ScalarNode && v.ShortTag() == tagStr && v.Value == core.SnapshotAll {
		d.cfg.SnapshotIndex = core.SnapshotIndex{All: true}
		return
	}
	n, ok := d.scalarInt(key, key, v, fmt.Sprintf("integer or %q", core.SnapshotAll))
	if !ok {
		return
	}
	if n < -1 {
		d.outOfRange(key, key, v, "must be -1 (last snapshot) or a snapshot index >= 0")
		return
	}
	d.cfg.SnapshotIndex = core.SnapshotIndex{Index: n}
}

func (d *decoder) bodyParts() {
	const key = "bodyparts"
	v, ok := d.lookup(key, true)
	if !ok {
		return
	}
	if v.Kind != yaml.SequenceNode {
		d.mismatch(key, key, v, "list of body part names")
		return
	}
	d.haveBodyParts = true

	firstSeen := make(map[string]*yaml.Node, len(v.Content))
	names := make([]string, 0, len(v.Content))
	for i, item := range v.Content {
		item = deref(item)
		if item.Kind != yaml.ScalarNode || item.ShortTag() != tagStr {
			d.mismatch(fmt.Sprintf("%s[%d]", key, i), key, item, "string")
			continue
		}
		if first, dup := firstSeen[item.Value]; dup {
			d.fail(key, &DuplicateNameError{
				File:      d.file,
				Field:     key,
				Name:      item.Value,
				Line:      item.Line,
				Column:    item.Column,
				FirstLine: first.Line,
			})
			continue
		}
		firstSeen[item.Value] = item
		names = append(names, item.Value)
	}
	d.cfg.BodyParts = names
}

func (d *decoder) skeleton() {
	const key = "skeleton"
	v, ok := d.lookup(key, false)
	if !ok {
		return
	}
	if v.Kind != yaml.SequenceNode {
		d.mismatch(key, key, v, "list of body part pairs")
		return
	}

	edges := make([]core.Edge, 0, len(v.Content))
	nodes := make([][2]*yaml.Node, 0, len(v.Content))
	index := make([]int, 0, len(v.Content))
	for i, item := range v.Content {
		item = deref(item)
		field := fmt.Sprintf("%s[%d]", key, i)
		if item.Kind != yaml.SequenceNode || len(item.Content) != 2 {
			d.mismatch(field, key, item, "pair of body part names")
			continue
		}
		var edge core.Edge
		var pair [2]*yaml.Node
		valid := true
		for j, end := range item.Content {
			end = deref(end)
			if end.Kind != yaml.ScalarNode || end.ShortTag() != tagStr {
				d.mismatch(fmt.Sprintf("%s[%d]", field, j), key, end, "body part name")
				valid = false
				break
			}
			edge[j] = end.Value
			pair[j] = end
		}
		if valid {
			edges = append(edges, edge)
			nodes = append(nodes, pair)
			index = append(index, i)
		}
	}
	d.cfg.Skeleton = edges
	d.edgeNodes = nodes
	d.edgeIndex = index
}

func (d *decoder) videoSets() {
	const key = "video_sets"
	// The key is required but a null value is an empty set.
	if _, present := d.values[key]; !present {
		d.fail(key, &MissingFieldError{File: d.file, Field: key})
		return
	}
	v, ok := d.lookup(key, false)
	if !ok {
		return
	}
	if v.Kind != yaml.MappingNode {
		d.mismatch(key, key, v, "mapping of video path to settings")
		return
	}

	sets := make(map[string]core.VideoSet, len(v.Content)/2)
	for i := 0; i+1 < len(v.Content); i += 2 {
		pathNode, settings := v.Content[i], deref(v.Content[i+1])
		if pathNode.Kind != yaml.ScalarNode {
			d.mismatch(key, key, pathNode, "video path")
			continue
		}
		field := fmt.Sprintf("%s[%s]", key, pathNode.Value)
		if settings.Kind != yaml.MappingNode {
			d.mismatch(field, key, settings, "mapping with a crop entry")
			continue
		}

		var cropNode *yaml.Node
		for j := 0; j+1 < len(settings.Content); j += 2 {
			if settings.Content[j].Value == "crop" {
				cropNode = deref(settings.Content[j+1])
			}
		}
		if cropNode == nil || isNull(cropNode) {
			d.fail(key, &MissingFieldError{File: d.file, Field: field + ".crop", Line: settings.Line})
			continue
		}
		if cropNode.Kind != yaml.ScalarNode || cropNode.ShortTag() != tagStr {
			d.mismatch(field+".crop", key, cropNode, `crop string "x1, x2, y1, y2"`)
			continue
		}
		box, err := core.ParseCropBox(cropNode.Value)
		if err != nil {
			d.mismatch(field+".crop", key, cropNode, `crop string "x1, x2, y1, y2"`)
			continue
		}
		if !box.Valid() {
			d.outOfRange(field+".crop", key, cropNode, "crop must satisfy 0 <= x1 < x2 and 0 <= y1 < y2")
			continue
		}
		sets[pathNode.Value] = core.VideoSet{Crop: box}
	}
	d.cfg.VideoSets = sets
}

// checkCropping enforces analysis crop bounds when cropping is enabled.
func (d *decoder) checkCropping() {
	c := d.cfg.Cropping
	if !c.Enabled {
		return
	}
	at := func(key string) *yaml.Node {
		if n, ok := d.values[key]; ok {
			return n
		}
		return d.values["cropping"]
	}
	if c.X1 < 0 && !d.failed["x1"] {
		d.outOfRange("x1", "x1", at("x1"), "must be 0 or greater")
	}
	if c.Y1 < 0 && !d.failed["y1"] {
		d.outOfRange("y1", "y1", at("y1"), "must be 0 or greater")
	}
	if c.X2 <= c.X1 && !d.failed["x2"] && !d.failed["x1"] {
		d.outOfRange("x2", "x2", at("x2"), fmt.Sprintf("must be greater than x1 (%d) when cropping is enabled", c.X1))
	}
	if c.Y2 <= c.Y1 && !d.failed["y2"] && !d.failed["y1"] {
		d.outOfRange("y2", "y2", at("y2"), fmt.Sprintf("must be greater than y1 (%d) when cropping is enabled", c.Y1))
	}
}

// checkConstraints applies the struct-level `validate` constraints and
// maps violations back to document positions.
func (d *decoder) checkConstraints() error {
	violations, err := defaultValidator.check(d.cfg)
	if err != nil {
		return err
	}
	for _, fv := range violations {
		if d.failed[fv.Key] {
			continue
		}
		node := d.values[fv.Key]
		if node != nil && fv.Index >= 0 && fv.Index < len(node.Content) {
			node = deref(node.Content[fv.Index])
		}

		if fv.Tag == "required" && fv.Index < 0 {
			line := 0
			if k, ok := d.keys[fv.Key]; ok {
				line = k.Line
			}
			d.problems = append(d.problems, &MissingFieldError{File: d.file, Field: fv.Key, Line: line})
			continue
		}

		re := &RangeError{File: d.file, Field: fv.Key, Message: fv.Message}
		if fv.Index >= 0 {
			re.Field = fmt.Sprintf("%s[%d]", fv.Key, fv.Index)
		}
		if node != nil {
			re.Line, re.Column = node.Line, node.Column
		}
		d.problems = append(d.problems, re)
	}
	return nil
}

// checkReferences verifies that every skeleton endpoint is a declared
// body part. Under PolicyStrict all undeclared names form one
// DanglingReferenceError; under PolicyLenient each becomes a warning.
// Only the body parts and edges that decoded are compared, so other
// problems in either list do not hide dangling names.
func (d *decoder) checkReferences() {
	if !d.haveBodyParts {
		return
	}
	declared := d.cfg.BodyPartIndex()

	var dangling DanglingReferenceError
	dangling.File = d.file
	seen := make(map[string]bool)
	for i, edge := range d.cfg.Skeleton {
		for j, name := range edge {
			if declared[name] {
				continue
			}
			ref := Reference{Name: name, Edge: i}
			if i < len(d.edgeIndex) {
				ref.Edge = d.edgeIndex[i]
			}
			if i < len(d.edgeNodes) && d.edgeNodes[i][j] != nil {
				ref.Line, ref.Column = d.edgeNodes[i][j].Line, d.edgeNodes[i][j].Column
			}
			dangling.Refs = append(dangling.Refs, ref)
			if !seen[name] {
				seen[name] = true
				dangling.Names = append(dangling.Names, name)
			}
		}
	}
	if len(dangling.Names) == 0 {
		return
	}

	if d.policy == core.PolicyLenient {
		for _, name := range dangling.Names {
			w := Warning{
				Code:    WarnDanglingReference,
				Field:   "skeleton",
				Name:    name,
				Message: fmt.Sprintf("skeleton references undeclared body part %q", name),
			}
			for _, ref := range dangling.Refs {
				if ref.Name == name {
					w.Line, w.Column = ref.Line, ref.Column
					break
				}
			}
			d.warnings = append(d.warnings, w)
		}
		return
	}
	d.fail("skeleton", &dangling)
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull
}

// deref follows alias nodes to their anchor.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// describeNode renders a node's type and value for error messages.
func describeNode(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return fmt.Sprintf("list of %d item(s)", len(n.Content))
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case tagStr:
			return fmt.Sprintf("string %q", n.Value)
		case tagInt:
			return "integer " + n.Value
		case tagFloat:
			return "number " + n.Value
		case tagBool:
			return "boolean " + n.Value
		case tagNull:
			return "null"
		default:
			return n.Value
		}
	default:
		return "unsupported value"
	}
}
