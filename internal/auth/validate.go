package auth

import (
	"github.com/go-playground/validator/v10"

	"github.com/ViniciusCazuza/minimal-api/internal/validation"
)

// CreateRequest is the body of POST /administrators. bcrypt refuses
// passwords past 72 bytes.
type CreateRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank,maxbytes=72"`
	Role     string `json:"role" validate:"notblank,role"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validation.New()
	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := ParseRole(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

var createMessages = map[string]string{
	"Email.notblank":    "email must not be empty",
	"Password.notblank": "password must not be empty",
	"Password.maxbytes": "password must be at most 72 bytes",
	"Role.notblank":     "role must not be empty",
	"Role.role":         "role must be one of Adm, Editor",
}

// ValidateAdministrator collects every problem with req. An empty result
// means req can be stored.
func ValidateAdministrator(req CreateRequest) []string {
	return validation.Messages(validate, req, createMessages)
}
