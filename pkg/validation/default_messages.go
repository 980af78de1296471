package validation

import (
	"fmt"

	"github.com/Payphone-Digital/addressbook/internal/constants"
)

func DefaultMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, param)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case constants.TagPhone:
		return fmt.Sprintf("%s must be exactly 10 digits", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
