package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags. Only the first
// failing field is reported so clients get one actionable message.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok || len(ve) == 0 {
		return err
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "email":
		return fmt.Errorf("%s must be a valid email address", fe.Field())
	case "e164":
		return fmt.Errorf("%s must be in international format (+1234567890)", fe.Field())
	case "min":
		return fmt.Errorf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "len":
		return fmt.Errorf("%s must be exactly %s characters", fe.Field(), fe.Param())
	case "numeric":
		return fmt.Errorf("%s must contain only numbers", fe.Field())
	default:
		return fmt.Errorf("field '%s' failed '%s'", fe.Field(), fe.Tag())
	}
}
