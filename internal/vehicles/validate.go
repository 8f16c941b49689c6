package vehicles

import "github.com/ViniciusCazuza/minimal-api/internal/validation"

// MinYear is the oldest model year the registry accepts. It must match the
// gte rule on Payload.Year.
const MinYear = 1950

var validate = validation.New()

var messages = map[string]string{
	"Name.notblank":  "name must not be empty",
	"Brand.notblank": "brand must not be empty",
	"Year.gte":       "vehicle too old, only vehicles from 1950 onward",
}

// Validate reports every rule p breaks. All rules run; nothing
// short-circuits.
func Validate(p Payload) []string {
	return validation.Messages(validate, p, messages)
}
