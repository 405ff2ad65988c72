package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "parse error with line",
			err:  &ParseError{File: "config.yaml", Line: 3, Message: "did not find expected key"},
			want: "config.yaml:3: did not find expected key",
		},
		{
			name: "parse error without file",
			err:  &ParseError{Line: 3, Message: "did not find expected key"},
			want: "line 3: did not find expected key",
		},
		{
			name: "missing field",
			err:  &MissingFieldError{File: "config.yaml", Field: "scorer"},
			want: "config.yaml: scorer: required field is missing",
		},
		{
			name: "null field",
			err:  &MissingFieldError{File: "config.yaml", Field: "scorer", Line: 2},
			want: "config.yaml:2: scorer: required field has no value",
		},
		{
			name: "type mismatch",
			err:  &TypeMismatchError{File: "config.yaml", Field: "numframes2pick", Line: 9, Column: 17, Expected: "non-negative integer", Got: "integer -5"},
			want: "config.yaml:9:17: numframes2pick: expected non-negative integer, got integer -5",
		},
		{
			name: "range",
			err:  &RangeError{Field: "pcutoff", Message: "pcutoff must be 1 or less"},
			want: "pcutoff: pcutoff must be 1 or less",
		},
		{
			name: "dangling",
			err: &DanglingReferenceError{
				File:  "config.yaml",
				Names: []string{"d2_mc_body", "d3_mc_body"},
				Refs:  []Reference{{Name: "d2_mc_body", Edge: 4, Line: 40, Column: 5}},
			},
			want: "config.yaml:40:5: skeleton: 2 undeclared body part(s) referenced: d2_mc_body, d3_mc_body",
		},
		{
			name: "duplicate",
			err:  &DuplicateNameError{File: "config.yaml", Field: "bodyparts", Name: "snout", Line: 10, Column: 3, FirstLine: 7},
			want: `config.yaml:10:3: bodyparts: "snout" is declared more than once (first at line 7)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	missing := &MissingFieldError{Field: "scorer"}
	dup := &DuplicateNameError{Field: "bodyparts", Name: "snout"}
	ve := &ValidationError{File: "config.yaml", Problems: []error{missing, dup}}

	var mf *MissingFieldError
	assert.True(t, errors.As(ve, &mf))
	assert.Same(t, missing, mf)

	var dn *DuplicateNameError
	assert.True(t, errors.As(ve, &dn))

	var de *DanglingReferenceError
	assert.False(t, errors.As(ve, &de))

	assert.Contains(t, ve.Error(), "config.yaml has 2 problems:")

	single := &ValidationError{Problems: []error{missing}}
	assert.Equal(t, missing.Error(), single.Error())
}

func TestWarningString(t *testing.T) {
	w := Warning{Code: WarnDanglingReference, Line: 12, Column: 5, Message: `skeleton references undeclared body part "tail"`}
	assert.Equal(t, `line 12:5: skeleton references undeclared body part "tail"`, w.String())
}
