// Package validate provides input validation helpers for the studiodesk CLI.
package validate

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/model"
)

const (
	// MaxNameLength is the maximum length for a client, professional or
	// assessment name.
	MaxNameLength = 128
)

var (
	once     sync.Once
	instance *validator.Validate
)

// engine returns the shared validator with the studio tags registered:
//
//	weekday   one of the six studio days (see model.ParseDay)
//	step5     integer multiple of model.DurationStepMinutes
//	notblank  string with at least one non-space character
func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("label"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}
			return name
		})
		mustRegister(v, "weekday", validateWeekday)
		mustRegister(v, "step5", validateStep)
		mustRegister(v, "notblank", validateNotBlank)
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, ok := model.ParseDay(fl.Field().String())
	return ok
}

func validateStep(fl validator.FieldLevel) bool {
	return fl.Field().Int()%model.DurationStepMinutes == 0
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates v against its `validate` tags. The first failing field is
// reported as a *errors.UserError.
func Struct(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	return translate(fieldErrs[0])
}

func translate(fe validator.FieldError) *errors.UserError {
	field := fe.Field()
	value := fmt.Sprint(fe.Value())

	switch fe.Tag() {
	case "required", "notblank":
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field).WithCause(emptyCause(field))
	case "weekday":
		return errors.NewUserErrorWithField(field, value,
			"Unknown weekday",
			"Use segunda, terça, quarta, quinta, sexta or sábado").WithCause(errors.ErrInvalidDay)
	case "min":
		return errors.NewUserErrorWithField(field, value,
			field+" must be at least "+fe.Param(), "")
	case "max":
		return errors.NewUserErrorWithField(field, value,
			field+" must be at most "+fe.Param(), "")
	case "step5":
		return errors.NewUserErrorWithField(field, value,
			field+" must be a multiple of "+strconv.Itoa(model.DurationStepMinutes), "")
	}
	return errors.NewUserErrorWithField(field, value, field+" is invalid", "")
}

func emptyCause(field string) error {
	switch field {
	case "day":
		return errors.ErrInvalidDay
	case "time":
		return errors.ErrInvalidTime
	case "date":
		return errors.ErrInvalidDate
	}
	return errors.ErrNameRequired
}

// Name validates a person name.
func Name(field, name string) error {
	if err := NonEmpty(field, name); err != nil {
		return err
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField(field, name,
			field+" too long",
			"Names must be "+strconv.Itoa(MaxNameLength)+" characters or fewer")
	}
	return nil
}

// NonEmpty validates that a string is not blank.
func NonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewUserError(
			field+" cannot be empty",
			"Provide a value for "+field).WithCause(errors.ErrNameRequired)
	}
	return nil
}

// InRange validates that an integer is within [min, max].
func InRange(field string, value, min, max int) error {
	if value < min || value > max {
		return errors.NewUserErrorWithField(field, strconv.Itoa(value),
			"Value out of range",
			fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return nil
}
