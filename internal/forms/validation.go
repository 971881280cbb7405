package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/fitgam/internal/fitness"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// field errors are keyed by the json name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		"trimmin":        trimmedMinLength,
		"notblank":       notBlank,
		"workout_type":   workoutType,
		"challenge_type": challengeType,
		"workout_date":   workoutDate,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %s: %s", tag, err))
		}
	}

	return v
}

func trimmedMinLength(fl validator.FieldLevel) bool {
	minLength, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= minLength
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func workoutType(fl validator.FieldLevel) bool {
	_, err := fitness.ParseWorkoutType(fl.Field().String())
	return err == nil
}

func challengeType(fl validator.FieldLevel) bool {
	_, err := fitness.ParseChallengeType(fl.Field().String())
	return err == nil
}

func workoutDate(fl validator.FieldLevel) bool {
	_, err := WorkoutForm{Date: fl.Field().String()}.ParseDate(time.UTC)
	return err == nil
}

// validateForm runs the struct validation and maps the failures to messages.
// A message keyed by "field.tag" wins over the one keyed by "field".
func validateForm(form any, messages map[string]string) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return FieldErrors{"form": "Invalid form"}
	}

	fe := FieldErrors{}
	for _, fieldErr := range validationErrs {
		field := fieldErr.Field()
		msg, ok := messages[field+"."+fieldErr.Tag()]
		if !ok {
			msg, ok = messages[field]
		}
		if !ok {
			msg = "Invalid " + field
		}
		fe.add(field, msg)
	}
	return fe.orNil()
}
