package config

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/maps"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/posecfg/schema"
)

const schemaURL = "config.schema.json"

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaErr  error
	compiledSchemaOnce sync.Once
)

// SchemaViolation is one JSON schema failure, located by JSON pointer.
type SchemaViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v SchemaViolation) String() string {
	return v.Path + ": " + v.Message
}

// SchemaError reports a document that does not conform to the JSON schema.
type SchemaError struct {
	File       string
	Violations []SchemaViolation
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return prefixed(e.File, 0, 0, "schema: "+strings.Join(parts, "; "))
}

// ValidateSchema checks a document against the embedded JSON schema.
// It is a structural check only; Load performs the full validation.
func ValidateSchema(src io.Reader, file string) error {
	var conf map[string]any
	if err := yaml.NewDecoder(src).Decode(&conf); err != nil {
		if err == io.EOF {
			return &ParseError{File: file, Message: "document is empty"}
		}
		return newParseError(file, err)
	}

	sch, err := configSchema()
	if err != nil {
		return fmt.Errorf("compiling JSON schema: %w", err)
	}

	maps.IntfaceKeysToStrings(conf)
	inst := normalizeScalars(conf)

	if err := sch.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		return &SchemaError{File: file, Violations: flattenSchemaError(ve)}
	}
	return nil
}

// Schema returns the embedded JSON schema document.
func Schema() []byte {
	return bytes.Clone(schema.ConfigSchema)
}

func configSchema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiledSchema, compiledSchemaErr = compileSchema(schemaURL, schema.ConfigSchema)
	})
	return compiledSchema, compiledSchemaErr
}

func compileSchema(url string, content []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, err
	}

	return compiler.Compile(url)
}

// normalizeScalars converts YAML-only scalar types to their JSON form.
func normalizeScalars(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeScalars(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalizeScalars(val)
		}
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	default:
		return v
	}
}

var schemaPrinter = message.NewPrinter(language.English)

// flattenSchemaError collects the leaf causes of a schema failure.
func flattenSchemaError(ve *jsonschema.ValidationError) []SchemaViolation {
	var out []SchemaViolation
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, SchemaViolation{
				Path:    "/" + strings.Join(e.InstanceLocation, "/"),
				Message: e.ErrorKind.LocalizedString(schemaPrinter),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
