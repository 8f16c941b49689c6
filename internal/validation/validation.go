// Package validation wraps go-playground/validator with the rules request
// payloads share and turns failures into client-facing messages.
package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// New returns a validator with the notblank and maxbytes rules registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "maxbytes", maxBytes)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// maxbytes=N limits a string to N bytes, not runes.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// Messages validates s and maps each failure, keyed "Field.tag", through
// msgs. The result is empty, never nil, when s is valid.
func Messages(v *validator.Validate, s any, msgs map[string]string) []string {
	out := []string{}
	err := v.Struct(s)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append(out, err.Error())
	}
	for _, fe := range verrs {
		if m, ok := msgs[fe.StructField()+"."+fe.Tag()]; ok {
			out = append(out, m)
			continue
		}
		out = append(out, strings.ToLower(fe.StructField())+" is invalid")
	}
	return out
}
