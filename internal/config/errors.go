package config

import (
	"fmt"
	"strings"
)

// location formats a file:line:col prefix. Missing parts are omitted.
func location(file string, line, col int) string {
	var b strings.Builder
	b.WriteString(file)
	if line > 0 {
		if b.Len() > 0 {
			b.WriteString(":")
		} else {
			b.WriteString("line ")
		}
		fmt.Fprintf(&b, "%d", line)
		if col > 0 {
			fmt.Fprintf(&b, ":%d", col)
		}
	}
	return b.String()
}

func prefixed(file string, line, col int, msg string) string {
	if loc := location(file, line, col); loc != "" {
		return loc + ": " + msg
	}
	return msg
}

// ParseError reports a document that is not well-formed YAML or whose
// top level is not a mapping.
type ParseError struct {
	File    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return prefixed(e.File, e.Line, 0, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingFieldError reports a required key that is absent or has no value.
type MissingFieldError struct {
	File  string
	Field string
	Line  int // line of the key when present without a value, 0 when absent
}

func (e *MissingFieldError) Error() string {
	if e.Line > 0 {
		return prefixed(e.File, e.Line, 0, fmt.Sprintf("%s: required field has no value", e.Field))
	}
	return prefixed(e.File, 0, 0, fmt.Sprintf("%s: required field is missing", e.Field))
}

// TypeMismatchError reports a value whose type disagrees with the schema.
type TypeMismatchError struct {
	File     string
	Field    string
	Line     int
	Column   int
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return prefixed(e.File, e.Line, e.Column,
		fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected, e.Got))
}

// RangeError reports a well-typed value outside its permitted range.
type RangeError struct {
	File    string
	Field   string
	Line    int
	Column  int
	Message string
}

func (e *RangeError) Error() string {
	return prefixed(e.File, e.Line, e.Column, fmt.Sprintf("%s: %s", e.Field, e.Message))
}

// Reference is one occurrence of an undeclared name in the skeleton.
type Reference struct {
	Name   string
	Edge   int // index into skeleton
	Line   int
	Column int
}

// DanglingReferenceError reports skeleton edges naming body parts that are
// not declared in bodyparts. All undeclared names are carried in one error.
type DanglingReferenceError struct {
	File  string
	Names []string    // distinct names, in order of first appearance
	Refs  []Reference // every occurrence
}

func (e *DanglingReferenceError) Error() string {
	line, col := 0, 0
	if len(e.Refs) > 0 {
		line, col = e.Refs[0].Line, e.Refs[0].Column
	}
	return prefixed(e.File, line, col, fmt.Sprintf(
		"skeleton: %d undeclared body part(s) referenced: %s",
		len(e.Names), strings.Join(e.Names, ", ")))
}

// DuplicateNameError reports a name declared more than once in a list
// that must be unique.
type DuplicateNameError struct {
	File      string
	Field     string
	Name      string
	Line      int
	Column    int
	FirstLine int
}

func (e *DuplicateNameError) Error() string {
	return prefixed(e.File, e.Line, e.Column, fmt.Sprintf(
		"%s: %q is declared more than once (first at line %d)", e.Field, e.Name, e.FirstLine))
}

// ValidationError aggregates every problem found in a document.
// Individual problems can be matched with errors.As.
type ValidationError struct {
	File     string
	Problems []error
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].Error()
	}
	var b strings.Builder
	name := e.File
	if name == "" {
		name = "document"
	}
	fmt.Fprintf(&b, "%s has %d problems:", name, len(e.Problems))
	for _, p := range e.Problems {
		b.WriteString("\n  ")
		b.WriteString(p.Error())
	}
	return b.String()
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return e.Problems }
