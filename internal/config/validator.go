package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// fieldValidator checks the `validate` constraints declared on the
// document types and renders failures as English messages.
type fieldValidator struct {
	v *validator.Validate
	t ut.Translator
}

var defaultValidator = mustNewFieldValidator()

func mustNewFieldValidator() *fieldValidator {
	fv, err := newFieldValidator()
	if err != nil {
		panic(err)
	}
	return fv
}

func newFieldValidator() (*fieldValidator, error) {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	translate, _ := uni.GetTranslator("en")
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := entranslations.RegisterDefaultTranslations(validate, translate); err != nil {
		return nil, err
	}

	// Cross-field params are Go field names; report them by document key.
	for _, tag := range []string{"gtefield", "gtfield"} {
		text := "{0} must be greater than or equal to {1}"
		if tag == "gtfield" {
			text = "{0} must be greater than {1}"
		}
		if err := validate.RegisterTranslation(tag, translate,
			func(ut ut.Translator) error { return ut.Add(tag, text, true) },
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, err := ut.T(fe.Tag(), fe.Field(), strings.ToLower(fe.Param()))
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		); err != nil {
			return nil, err
		}
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tagName := range []string{"yaml", "json"} {
			if name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]; name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	return &fieldValidator{v: validate, t: translate}, nil
}

// fieldViolation is one failed constraint, keyed by document field.
type fieldViolation struct {
	Key     string // top-level document key
	Index   int    // element index for list fields, -1 otherwise
	Tag     string // failed constraint, e.g. "lte"
	Message string
}

// check validates s and returns its violations. Errors that are not
// field-level (invalid input) are returned as-is.
func (fv *fieldValidator) check(s any) ([]fieldViolation, error) {
	err := fv.v.Struct(s)
	if err == nil {
		return nil, nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, err
	}

	out := make([]fieldViolation, 0, len(errs))
	for _, fe := range errs {
		key, idx := splitIndexedField(fe.Field())
		out = append(out, fieldViolation{
			Key:     key,
			Index:   idx,
			Tag:     fe.Tag(),
			Message: fe.Translate(fv.t),
		})
	}
	return out, nil
}

// splitIndexedField turns "TrainingFraction[2]" into ("TrainingFraction", 2).
func splitIndexedField(field string) (string, int) {
	open := strings.IndexByte(field, '[')
	if open < 0 || !strings.HasSuffix(field, "]") {
		return field, -1
	}
	idx := 0
	for _, r := range field[open+1 : len(field)-1] {
		if r < '0' || r > '9' {
			return field[:open], -1
		}
		idx = idx*10 + int(r-'0')
	}
	return field[:open], idx
}
