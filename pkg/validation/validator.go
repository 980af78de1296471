package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(constants.PhonePattern)

// TagName is the struct tag read by both gin binding and New
const TagName = "binding"

// New returns a validator that reads binding tags, reports JSON field names
// and knows the custom rules.
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName(TagName)
	configure(v)
	return v
}

// RegisterGinRules installs the custom rules into gin's default validator so
// ShouldBindJSON enforces them too.
func RegisterGinRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not validator/v10")
	}
	return configure(v)
}

func configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	return v.RegisterValidation(constants.TagPhone, validatePhone)
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Messages turns a validation error into readable per-field messages. Errors
// that are not validator errors (bad JSON, wrong types) yield their text.
func Messages(err error) []string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if custom := CustomMessage(e.Field()); custom != nil {
			if msg, ok := custom[e.Tag()]; ok {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, DefaultMessage(e.Field(), e.Tag(), e.Param()))
	}
	return messages
}
