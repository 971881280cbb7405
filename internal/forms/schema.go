package forms

import (
	"errors"

	"github.com/invopop/jsonschema"
)

var ErrUnknownForm = errors.New("unknown form")

var schemaForms = map[string]any{
	"signup":    &SignupForm{},
	"login":     &LoginForm{},
	"workout":   &WorkoutForm{},
	"profile":   &ProfileForm{},
	"challenge": &ChallengeForm{},
}

func SchemaNames() []string {
	return []string{"challenge", "login", "profile", "signup", "workout"}
}

// Schema returns the JSON schema of the named form.
func Schema(name string) (*jsonschema.Schema, error) {
	form, ok := schemaForms[name]
	if !ok {
		return nil, ErrUnknownForm
	}
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return r.Reflect(form), nil
}
