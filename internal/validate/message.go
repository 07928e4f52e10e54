package validate

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be at most {param}",
	"min":      "{field} must be at least {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"url":      "{field} must be a valid URL",
	"isodate":  "{field} must be a YYYY-MM-DD date",
	"slot":     "{field} must be one of the bookable start times",
	"weekday":  "{field} must be a day of the week",
}

func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, fe := range valErrors {
		msg := messages[fe.Tag()]
		if msg == "" {
			continue
		}
		field := fe.Field()
		if field == "" {
			field = "value"
		}
		msg = strings.ReplaceAll(msg, "{field}", field)
		return strings.ReplaceAll(msg, "{param}", fe.Param())
	}
	return valErrors.Error()
}
