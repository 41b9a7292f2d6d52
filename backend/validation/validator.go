package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

var (
	hhmmTag   = "hhmm"
	hhmmText  = "{0} must be a time of day formatted as HH:MM"
	hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

	dateTag  = "date"
	dateText = "{0} must be a date formatted as YYYY-MM-DD"

	requiredTag  = "required"
	requiredText = "{0} is required"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator
)

func init() {
	english := en.New()
	Translator, _ = ut.New(english, english).GetTranslator("en")
	Validate = validator.New()
	if err := InitValidators(Validate, Translator); err != nil {
		panic(err)
	}
}

// InitValidators registers translations and the custom tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) error {
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return errors.Wrap(err, "registering default translations")
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation(hhmmTag, func(fl validator.FieldLevel) bool {
		return hhmmRegex.MatchString(fl.Field().String())
	}); err != nil {
		return errors.Wrapf(err, "registering %s", hhmmTag)
	}
	if err := registerTranslation(validate, translator, hhmmTag, hhmmText); err != nil {
		return err
	}

	if err := validate.RegisterValidation(dateTag, func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	}); err != nil {
		return errors.Wrapf(err, "registering %s", dateTag)
	}
	if err := registerTranslation(validate, translator, dateTag, dateText); err != nil {
		return err
	}

	return registerTranslation(validate, translator, requiredTag, requiredText, true)
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) error {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	err := validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
	return errors.Wrapf(err, "registering %s translation", tag)
}

// Struct validates s with the shared validator.
func Struct(s interface{}) error {
	return errors.WithStack(Validate.Struct(s))
}

// Fields translates validation errors into a field -> message map.
func Fields(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = fe.Translate(Translator)
	}
	return fields
}

// ParseDate parses an optional YYYY-MM-DD value; empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing date %q", s)
	}
	return &d, nil
}
