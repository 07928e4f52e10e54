package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"

	"squash-courts/backend/internal/domain/schedule"
)

// ErrInvalid marks a payload that failed validation. The wrapped message
// names the first offending field.
var ErrInvalid = errors.New("invalid input")

var validate *val.Validate

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	// Report json names instead of Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	must(validate.RegisterValidation("isodate", func(fl val.FieldLevel) bool {
		_, err := time.Parse(schedule.DateLayout, fl.Field().String())
		return err == nil
	}))
	must(validate.RegisterValidation("slot", func(fl val.FieldLevel) bool {
		_, ok := schedule.DefaultGrid.IndexOf(fl.Field().String())
		return ok
	}))
	must(validate.RegisterValidation("weekday", func(fl val.FieldLevel) bool {
		_, err := schedule.ParseWeekday(fl.Field().String())
		return err == nil
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates v against its validate tags.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, message(err))
	}
	return nil
}

// Var validates a single value against a tag expression.
func Var(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, message(err))
	}
	return nil
}

func IsErrInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
